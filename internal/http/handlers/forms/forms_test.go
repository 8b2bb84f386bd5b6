package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Classes(t *testing.T) {
	h := New()

	for _, name := range []string{"post", "register", "verify", "profile"} {
		hints, ok := h.Form(name)
		require.True(t, ok, name)
		require.NotEmpty(t, hints, name)
		for _, f := range hints {
			if f.Widget == WidgetCheckbox {
				assert.Equal(t, ClassCheck, f.Class, "%s.%s", name, f.Name)
			} else {
				assert.Equal(t, ClassControl, f.Class, "%s.%s", name, f.Name)
			}
		}
	}

	post, _ := h.Form("post")
	assert.Equal(t, FieldHint{Name: "title", Widget: WidgetText, Class: ClassControl, Required: true}, post[0])
	assert.Equal(t, FieldHint{Name: "premium", Widget: WidgetCheckbox, Class: ClassCheck}, post[3])
}

func TestHandler_ServeHTTP(t *testing.T) {
	h := New()

	call := func(name string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/"+name, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", name)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := call("verify")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"name":"code","widget":"text","class":"form-control","required":true}`)

	w = call("unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"form not found"`)
}
