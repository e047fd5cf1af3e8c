package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helloraviai-ctrl/vidyaaitest/pkg/models"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(InjectValidator(NewAPIValidator(nil)))

	r.POST("/submit", ValidateRequest(ValidateGenerationBody), func(c *gin.Context) {
		req, ok := GetValidatedRequest(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"topic": req.Topic})
	})
	r.GET("/jobs", ValidateRequest(ValidateStatusQuery("status")), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": GetValidatedStatus(c)})
	})
	r.GET("/slide/:n", ValidateRequest(ValidateSlideNumber("n")), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"n": GetValidatedSlideNumber(c)})
	})
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestValidateGenerationBodyMiddleware(t *testing.T) {
	r := setupRouter()

	w, out := do(r, http.MethodPost, "/submit", `{"topic":"Gravity"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gravity", out["topic"])

	w, out = do(r, http.MethodPost, "/submit", `{"topic":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "topic is required", out["error"])
	assert.NotEmpty(t, out["validation_errors"])

	w, out = do(r, http.MethodPost, "/submit", `{"topic":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["error"], "Invalid JSON format")

	w, _ = do(r, http.MethodPost, "/submit", `{"topic":"`+strings.Repeat("a", 201)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateQueryAndParamMiddleware(t *testing.T) {
	r := setupRouter()

	w, out := do(r, http.MethodGet, "/jobs?status=completed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.StatusCompleted), out["status"])

	w, out = do(r, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", out["status"])

	w, _ = do(r, http.MethodGet, "/jobs?status=unknown", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = do(r, http.MethodGet, "/slide/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, out["n"])

	w, _ = do(r, http.MethodGet, "/slide/zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateRequestWithoutValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", ValidateRequest(ValidateStatusQuery("status")), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w, out := do(r, http.MethodGet, "/x", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Validation service unavailable", out["error"])
}
