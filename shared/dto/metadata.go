package dto

import (
	"pxltravel/shared/constant"
	"pxltravel/shared/model"
	"pxltravel/shared/timezone"
)

// Metadata is the audit trail rendered in application time.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func NewMetadata(m model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(m.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(m.ModifiedAt, constant.DateFormat),
		CreatedBy:  m.CreatedBy,
		ModifiedBy: m.ModifiedBy,
	}
}
