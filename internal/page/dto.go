// AngelaMos | 2026
// dto.go

package page

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageRequest is the create/update payload. IsPublic and Views are pointers
// so that an explicit false/zero passes validation while a missing field
// does not; both must always be defined on a stored page.
type PageRequest struct {
	ID               string         `json:"_id,omitempty"`
	UserID           string         `json:"userId"   validate:"required"`
	Name             string         `json:"name"     validate:"required,min=1"`
	URL              string         `json:"url"      validate:"required,min=1"`
	PageImageURL     string         `json:"pageImageUrl,omitempty"`
	IsPublic         *bool          `json:"isPublic" validate:"required"`
	Views            *int64         `json:"views"    validate:"required"`
	Style            *Style         `json:"style,omitempty"`
	TopComponents    []Component    `json:"topComponents,omitempty"`
	MiddleComponents []Component    `json:"middleComponents,omitempty"`
	BottomComponents []Component    `json:"bottomComponents,omitempty"`
	CustomScripts    *CustomScripts `json:"customScripts,omitempty"`
}

// ToPage converts the request into a page document. An invalid or missing
// _id yields the zero ObjectID, which the repository treats as "assign one".
func (r *PageRequest) ToPage() *Page {
	p := &Page{
		UserID:           r.UserID,
		Name:             r.Name,
		URL:              r.URL,
		PageImageURL:     r.PageImageURL,
		Style:            r.Style,
		TopComponents:    r.TopComponents,
		MiddleComponents: r.MiddleComponents,
		BottomComponents: r.BottomComponents,
		CustomScripts:    r.CustomScripts,
	}

	if r.IsPublic != nil {
		p.IsPublic = *r.IsPublic
	}
	if r.Views != nil {
		p.Views = *r.Views
	}

	if r.ID != "" {
		if id, err := primitive.ObjectIDFromHex(r.ID); err == nil {
			p.ID = id
		}
	}

	return p
}

// ComponentClicksRequest targets one embedded component for a click
// increment.
type ComponentClicksRequest struct {
	PageID      string `json:"pageId"      validate:"required"`
	ComponentID string `json:"componentId" validate:"required"`
}
