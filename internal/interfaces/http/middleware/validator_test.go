package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	type addressRequest struct {
		Pincode string `json:"pincode" binding:"required,pincode"`
		Phone   string `json:"phone" binding:"required,phone"`
	}

	r := gin.New()
	r.POST("/addresses", func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"pincode":"416001","phone":"+919876543210"}`, http.StatusOK},
		{"phone without plus", `{"pincode":"416001","phone":"9876543210"}`, http.StatusOK},
		{"pincode too short", `{"pincode":"4160","phone":"+919876543210"}`, http.StatusBadRequest},
		{"pincode leading zero", `{"pincode":"041600","phone":"+919876543210"}`, http.StatusBadRequest},
		{"pincode non numeric", `{"pincode":"41600a","phone":"+919876543210"}`, http.StatusBadRequest},
		{"phone too short", `{"pincode":"416001","phone":"12345"}`, http.StatusBadRequest},
		{"phone with letters", `{"pincode":"416001","phone":"+91abc543210"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/addresses", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
