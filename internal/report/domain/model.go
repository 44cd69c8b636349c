package domain

import (
	"strings"
	"time"
)

// Record is the read-only view of a pre-sale the report is built from.
type Record struct {
	ID                int64
	GroupID           int64
	StatusID          int64
	ResultID          int64
	RegionID          *int64
	Organization      string
	ResponsibleUserID *int64
	CreatedAt         time.Time
	ChangedAt         time.Time
}

// Category is one (id, display name) entry of a status, result or region table.
type Category struct {
	ID   int64
	Name string
}

type Group struct {
	ID           int64
	Name         string
	StatusID     int64
	DepartmentID *int64
	CreatedAt    time.Time
	ChangedAt    time.Time
}

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a requested format. Empty input selects xlsx.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Document is everything a renderer needs to serialize one report.
type Document struct {
	Title  string
	Date   time.Time
	Grid   Grid
	Charts []ChartSpec
}

// Artifact is a rendered report ready to be streamed to a client.
type Artifact struct {
	Bytes       []byte
	Filename    string
	ContentType string
	Format      Format
}
