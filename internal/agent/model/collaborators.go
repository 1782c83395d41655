package model

import (
	"context"
)

// KnowledgeRetriever searches the knowledge base of past projects.
// An empty match set is reported through a "no results" sentinel text with a
// nil error; only connectivity or embedding failures return an error.
type KnowledgeRetriever interface {
	RetrieveSimilarProjects(ctx context.Context, query string) (string, error)
}

// PriceEvaluator computes a project price from an hour estimate and a
// seniority level. Pure and total: unrecognised levels default silently.
type PriceEvaluator interface {
	ProjectPrice(hours int, level string) int
}

// DocumentRenderer turns an HTML string into a document on disk and returns
// its path. Callers must treat an empty path as a failed render.
type DocumentRenderer interface {
	CreatePDF(ctx context.Context, html string) (string, error)
}

// DeliveryStatus is the structured outcome of a notification attempt.
type DeliveryStatus struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
}

// ProposalNotifier delivers a rendered document to one or more recipients.
// It never panics; missing credentials or a missing file come back as an
// error status.
type ProposalNotifier interface {
	SendProposal(ctx context.Context, pdfPath string, recipients []string) DeliveryStatus
}
