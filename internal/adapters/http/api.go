package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var openapiSpec []byte

// ServerInterface represents all server handlers described in openapi.yaml.
type ServerInterface interface {
	// (GET /healthz)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /schemas)
	ListSchemas(w http.ResponseWriter, r *http.Request)
	// (GET /schemas/{name})
	GetSchema(w http.ResponseWriter, r *http.Request, name string)
	// (PUT /schemas/{name})
	PutSchema(w http.ResponseWriter, r *http.Request, name string)
	// (DELETE /schemas/{name})
	DeleteSchema(w http.ResponseWriter, r *http.Request, name string)
	// (POST /validate/{name})
	Validate(w http.ResponseWriter, r *http.Request, name string)
}

// ServerInterfaceWrapper converts path parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is passed to ErrorHandlerFunc when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

func (siw *ServerInterfaceWrapper) ListSchemas(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListSchemas(w, r)
}

func (siw *ServerInterfaceWrapper) GetSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	siw.Handler.GetSchema(w, r, name)
}

func (siw *ServerInterfaceWrapper) PutSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	siw.Handler.PutSchema(w, r, name)
}

func (siw *ServerInterfaceWrapper) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	siw.Handler.DeleteSchema(w, r, name)
}

func (siw *ServerInterfaceWrapper) Validate(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	siw.Handler.Validate(w, r, name)
}

func (siw *ServerInterfaceWrapper) bindName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return "", false
	}
	return name, true
}

// HandlerFromMux mounts the ServerInterface routes on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		},
	}

	r.Get("/healthz", wrapper.GetHealth)
	r.Get("/schemas", wrapper.ListSchemas)
	r.Get("/schemas/{name}", wrapper.GetSchema)
	r.Put("/schemas/{name}", wrapper.PutSchema)
	r.Delete("/schemas/{name}", wrapper.DeleteSchema)
	r.Post("/validate/{name}", wrapper.Validate)
	return r
}

// GetSwagger returns the parsed API description embedded in the binary.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading API description: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid API description: %w", err)
	}
	return doc, nil
}
