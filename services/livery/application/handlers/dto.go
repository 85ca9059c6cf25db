package handlers

import (
	"time"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// LiveryResponse is the wire form of a catalog livery.
type LiveryResponse struct {
	ID              string    `json:"id"              example:"3f1c2a9e-5b7d-4e1a-9c3b-2d4e6f8a0b1c"`
	Name            string    `json:"name"            example:"Gulf Heritage"`
	OwnerID         string    `json:"ownerId"         example:"owner-42"`
	Category        string    `json:"category"        example:"gt3"`
	SearchTokens    []string  `json:"searchTokens"    example:"gulf,heritage"`
	PopularityScore int       `json:"popularityScore" example:"4"`
	Downloads       int64     `json:"downloads"       example:"1250"`
	CreatedAt       time.Time `json:"createdAt"       example:"2024-01-15T10:30:00Z"`
} // @name LiveryResponse

// PageResponse is one page of a catalog enumeration. NextCursor is null on
// the last page.
type PageResponse struct {
	Items      []LiveryResponse `json:"items"`
	NextCursor *string          `json:"nextCursor" example:"3f1c2a9e-5b7d-4e1a-9c3b-2d4e6f8a0b1c"`
} // @name PageResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"livery not found"`
} // @name ErrorResponse

// NewLiveryResponse converts a domain livery into its wire form.
func NewLiveryResponse(l *models.Livery) LiveryResponse {
	tokens := l.SearchTokens
	if tokens == nil {
		tokens = []string{}
	}
	return LiveryResponse{
		ID:              l.ID.String(),
		Name:            l.Name.String(),
		OwnerID:         l.OwnerID,
		Category:        l.Category,
		SearchTokens:    tokens,
		PopularityScore: l.PopularityScore,
		Downloads:       l.Downloads,
		CreatedAt:       l.CreatedAt,
	}
}

// NewPageResponse converts a domain page into its wire form. Items is never null.
func NewPageResponse(p *models.Page) PageResponse {
	resp := PageResponse{Items: make([]LiveryResponse, len(p.Items))}
	for i, l := range p.Items {
		resp.Items[i] = NewLiveryResponse(l)
	}
	if p.NextCursor != nil {
		c := p.NextCursor.String()
		resp.NextCursor = &c
	}
	return resp
}

// ToLivery converts the wire form back into a domain livery. Responses only
// carry listable liveries.
func (r LiveryResponse) ToLivery() *models.Livery {
	return &models.Livery{
		ID:              models.LiveryID(r.ID),
		Name:            models.LiveryName(r.Name),
		OwnerID:         r.OwnerID,
		Category:        r.Category,
		SearchTokens:    r.SearchTokens,
		PopularityScore: r.PopularityScore,
		Downloads:       r.Downloads,
		CreatedAt:       r.CreatedAt,
		Visible:         true,
	}
}

// ToPage converts the wire form back into a domain page.
func (r PageResponse) ToPage() *models.Page {
	p := &models.Page{Items: make([]*models.Livery, len(r.Items))}
	for i, item := range r.Items {
		p.Items[i] = item.ToLivery()
	}
	if r.NextCursor != nil {
		p.NextCursor = models.CursorPtr(models.LiveryID(*r.NextCursor))
	}
	return p
}
