package html2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource         = errors.New("source path cannot be empty")
	ErrSourceRead          = errors.New("failed to read source document")
	ErrBrowserConnect      = errors.New("failed to connect to browser")
	ErrPageCreate          = errors.New("failed to create browser page")
	ErrPageLoad            = errors.New("failed to load page")
	ErrResourceInjection   = errors.New("failed to inject local resource")
	ErrGeometryMeasurement = errors.New("failed to measure content geometry")
	ErrPDFEmission         = errors.New("PDF emission failed")
	ErrSizeReduction       = errors.New("PDF size reduction failed")
)
