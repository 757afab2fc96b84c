package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"autotestgen/models"
	"autotestgen/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type GenerateController struct {
	relay services.Generator
}

func NewGenerateController(relay services.Generator) *GenerateController {
	return &GenerateController{relay: relay}
}

// HandleGenerate serves POST /api/generate. A well-formed body that is not
// a JSON object carries no prompt and is answered like a missing one.
func (gc *GenerateController) HandleGenerate(c *gin.Context) {
	var request models.GenerateRequest

	body, err := c.GetRawData()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
		return
	}
	if isNonObjectJSON(body) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Prompt is required"})
		return
	}

	if err := binding.JSON.BindBody(body, &request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Prompt is required"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
		return
	}

	resp, err := gc.relay.Generate(c.Request.Context(), request)
	if err != nil {
		relayErr := services.AsRelayError(err)
		_ = c.Error(relayErr)
		c.JSON(relayErr.Status, models.ErrorResponse{Error: relayErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func isNonObjectJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return json.Valid(trimmed) && len(trimmed) > 0 && trimmed[0] != '{'
}
