package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Defines values for Format.
const (
	FormatBinary Format = "binary"
	FormatJson   Format = "json"
)

// Format selects the response representation.
type Format string

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SequenceResponse defines model for SequenceResponse.
type SequenceResponse struct {
	Kind   string `json:"kind"`
	Count  int    `json:"count"`
	Values []int  `json:"values"`
}

// PrimalityResponse defines model for PrimalityResponse.
type PrimalityResponse struct {
	N     int  `json:"n"`
	Prime bool `json:"prime"`
}

// FormatParams defines parameters shared by every sequence endpoint.
type FormatParams struct {
	Format *Format `form:"format,omitempty" json:"format,omitempty"`
}

// GetPrimesParams defines parameters for GetPrimes.
type GetPrimesParams struct {
	Count  int     `form:"count" json:"count"`
	Format *Format `form:"format,omitempty" json:"format,omitempty"`
}

// GetGapsParams defines parameters for GetGaps.
type GetGapsParams struct {
	Count  int     `form:"count" json:"count"`
	Format *Format `form:"format,omitempty" json:"format,omitempty"`
}

// GetResiduesParams defines parameters for GetResidues.
type GetResiduesParams struct {
	Count   int     `form:"count" json:"count"`
	Modulus int     `form:"modulus" json:"modulus"`
	Format  *Format `form:"format,omitempty" json:"format,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /v1/primes)
	GetPrimes(w http.ResponseWriter, r *http.Request, params GetPrimesParams)
	// (GET /v1/primes/upto/{limit})
	GetPrimesUpTo(w http.ResponseWriter, r *http.Request, limit int, params FormatParams)
	// (GET /v1/gaps)
	GetGaps(w http.ResponseWriter, r *http.Request, params GetGapsParams)
	// (GET /v1/residues)
	GetResidues(w http.ResponseWriter, r *http.Request, params GetResiduesParams)
	// (GET /v1/counting/{limit})
	GetCounting(w http.ResponseWriter, r *http.Request, limit int, params FormatParams)
	// (GET /v1/factors/{n})
	GetFactors(w http.ResponseWriter, r *http.Request, n int, params FormatParams)
	// (GET /v1/isprime/{n})
	GetIsPrime(w http.ResponseWriter, r *http.Request, n int)
}

// ServerInterfaceWrapper converts request parameters into typed arguments.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	var handler http.Handler = h
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest *int) bool {
	err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, chi.URLParam(r, name), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request, name string, required bool, dest interface{}) bool {
	err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// GetPrimes operation middleware
func (siw *ServerInterfaceWrapper) GetPrimes(w http.ResponseWriter, r *http.Request) {
	var params GetPrimesParams
	if !siw.bindQuery(w, r, "count", true, &params.Count) || !siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetPrimes(w, r, params)
	})
}

// GetPrimesUpTo operation middleware
func (siw *ServerInterfaceWrapper) GetPrimesUpTo(w http.ResponseWriter, r *http.Request) {
	var limit int
	var params FormatParams
	if !siw.bindPath(w, r, "limit", &limit) || !siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetPrimesUpTo(w, r, limit, params)
	})
}

// GetGaps operation middleware
func (siw *ServerInterfaceWrapper) GetGaps(w http.ResponseWriter, r *http.Request) {
	var params GetGapsParams
	if !siw.bindQuery(w, r, "count", true, &params.Count) || !siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGaps(w, r, params)
	})
}

// GetResidues operation middleware
func (siw *ServerInterfaceWrapper) GetResidues(w http.ResponseWriter, r *http.Request) {
	var params GetResiduesParams
	if !siw.bindQuery(w, r, "count", true, &params.Count) ||
		!siw.bindQuery(w, r, "modulus", true, &params.Modulus) ||
		!siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetResidues(w, r, params)
	})
}

// GetCounting operation middleware
func (siw *ServerInterfaceWrapper) GetCounting(w http.ResponseWriter, r *http.Request) {
	var limit int
	var params FormatParams
	if !siw.bindPath(w, r, "limit", &limit) || !siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCounting(w, r, limit, params)
	})
}

// GetFactors operation middleware
func (siw *ServerInterfaceWrapper) GetFactors(w http.ResponseWriter, r *http.Request) {
	var n int
	var params FormatParams
	if !siw.bindPath(w, r, "n", &n) || !siw.bindQuery(w, r, "format", false, &params.Format) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetFactors(w, r, n, params)
	})
}

// GetIsPrime operation middleware
func (siw *ServerInterfaceWrapper) GetIsPrime(w http.ResponseWriter, r *http.Request) {
	var n int
	if !siw.bindPath(w, r, "n", &n) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetIsPrime(w, r, n)
	})
}

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

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/primes", wrapper.GetPrimes)
		r.Get(options.BaseURL+"/v1/primes/upto/{limit}", wrapper.GetPrimesUpTo)
		r.Get(options.BaseURL+"/v1/gaps", wrapper.GetGaps)
		r.Get(options.BaseURL+"/v1/residues", wrapper.GetResidues)
		r.Get(options.BaseURL+"/v1/counting/{limit}", wrapper.GetCounting)
		r.Get(options.BaseURL+"/v1/factors/{n}", wrapper.GetFactors)
		r.Get(options.BaseURL+"/v1/isprime/{n}", wrapper.GetIsPrime)
	})
	return r
}
