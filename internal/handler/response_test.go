package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			"api error",
			apierror.New("INVALID_AMOUNT", "amount must be a number greater than zero", http.StatusBadRequest),
			http.StatusBadRequest, "INVALID_AMOUNT",
		},
		{
			"wrapped api error",
			fmt.Errorf("record transaction: %w", apierror.New("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized)),
			http.StatusUnauthorized, "TOKEN_EXPIRED",
		},
		{"user not found", model.ErrUserNotFound, http.StatusUnauthorized, "USER_NOT_FOUND"},
		{"duplicate user", model.ErrUserAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"category not found", model.ErrCategoryNotFound, http.StatusBadRequest, "MISSING_CATEGORY"},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)

			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.code, body.Code)
			require.NotEmpty(t, body.Error)
		})
	}
}
