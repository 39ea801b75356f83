package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/recommend"
)

// fakeRecommendService returns a service that must not be reached; the
// handlers under test reject the request before calling it.
func fakeRecommendService(t *testing.T) *recommend.Service {
	t.Helper()
	return recommend.NewService(nil, nil, nil)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFindSimilarProducts_Unconfigured(t *testing.T) {
	service := &APIV1Service{}
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/products/similar", `{"query":"iPad Pro"}`)

	err := service.FindSimilarProducts(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestFindSimilarProducts_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{}`},
		{name: "n_results too small", body: `{"query":"iPad Pro","n_results":-1}`},
		{name: "n_results too large", body: `{"query":"iPad Pro","n_results":11}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A non-nil service pointer is enough: validation runs first.
			service := &APIV1Service{Recommend: fakeRecommendService(t)}
			c, _ := newTestContext(t, http.MethodPost, "/api/v1/products/similar", tt.body)

			err := service.FindSimilarProducts(c)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}
}

func TestCreateSale_RequiresProducts(t *testing.T) {
	service := &APIV1Service{}
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/sales", `{"client_id":1,"shop_id":1,"payment_method":"cash"}`)

	err := service.CreateSale(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetSaleRecommendation_InvalidID(t *testing.T) {
	service := &APIV1Service{}
	c, _ := newTestContext(t, http.MethodGet, "/api/v1/sales/abc/recommendation", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := service.GetSaleRecommendation(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpdateRecommendation_NothingToUpdate(t *testing.T) {
	service := &APIV1Service{}
	c, _ := newTestContext(t, http.MethodPatch, "/api/v1/recommendations/1", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := service.UpdateRecommendation(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
