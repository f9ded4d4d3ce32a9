package domain

import "errors"

// ErrNotFound is returned when an entity does not exist in the active store.
var ErrNotFound = errors.New("record not found")

// Company is the identity record for a client/brand shown on the public
// site. Description and content come in English/Arabic pairs.
type Company struct {
	ID            string `json:"id" firestore:"id"`
	Slug          string `json:"slug" firestore:"slug"`
	Name          string `json:"name" firestore:"name"`
	Logo          string `json:"logo,omitempty" firestore:"logo,omitempty"`
	Description   string `json:"description,omitempty" firestore:"description,omitempty"`
	DescriptionAR string `json:"description_ar,omitempty" firestore:"description_ar,omitempty"`
	Content       string `json:"content,omitempty" firestore:"content,omitempty"`
	ContentAR     string `json:"content_ar,omitempty" firestore:"content_ar,omitempty"`
	DocumentFile  string `json:"documentFile,omitempty" firestore:"documentFile,omitempty"`
	DocumentName  string `json:"documentName,omitempty" firestore:"documentName,omitempty"`
	DocumentType  string `json:"documentType,omitempty" firestore:"documentType,omitempty"`
}

// Project is a work item belonging to exactly one Company.
type Project struct {
	ID            string `json:"id" firestore:"id"`
	Slug          string `json:"slug" firestore:"slug"`
	Name          string `json:"name" firestore:"name"`
	CompanyID     string `json:"companyId" firestore:"companyId"`
	Description   string `json:"description,omitempty" firestore:"description,omitempty"`
	DescriptionAR string `json:"description_ar,omitempty" firestore:"description_ar,omitempty"`
	Content       string `json:"content,omitempty" firestore:"content,omitempty"`
	ContentAR     string `json:"content_ar,omitempty" firestore:"content_ar,omitempty"`
	DocumentFile  string `json:"documentFile,omitempty" firestore:"documentFile,omitempty"`
	DocumentName  string `json:"documentName,omitempty" firestore:"documentName,omitempty"`
	DocumentType  string `json:"documentType,omitempty" firestore:"documentType,omitempty"`
}
