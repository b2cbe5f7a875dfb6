// AngelaMos | 2026
// entity.go

package page

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a user's published bio-link page. Components live in three ordered
// position groups: top, middle, bottom.
type Page struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"       json:"_id,omitempty"`
	UserID           string             `bson:"userId"              json:"userId"`
	Name             string             `bson:"name"                json:"name"`
	URL              string             `bson:"url"                 json:"url"`
	PageImageURL     string             `bson:"pageImageUrl,omitempty"  json:"pageImageUrl,omitempty"`
	IsPublic         bool               `bson:"isPublic"            json:"isPublic"`
	Views            int64              `bson:"views"               json:"views"`
	Style            *Style             `bson:"style,omitempty"     json:"style,omitempty"`
	TopComponents    []Component        `bson:"topComponents,omitempty"    json:"topComponents,omitempty"`
	MiddleComponents []Component        `bson:"middleComponents,omitempty" json:"middleComponents,omitempty"`
	BottomComponents []Component        `bson:"bottomComponents,omitempty" json:"bottomComponents,omitempty"`
	CustomScripts    *CustomScripts     `bson:"customScripts,omitempty"    json:"customScripts,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt        time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Component is an embedded, typed visual element within a page. It never
// exists outside its page document.
type Component struct {
	ID            string       `bson:"_id,omitempty"           json:"_id,omitempty"`
	Text          string       `bson:"text,omitempty"          json:"text,omitempty"`
	URL           string       `bson:"url,omitempty"           json:"url,omitempty"`
	Style         *Style       `bson:"style,omitempty"         json:"style,omitempty"`
	Visible       bool         `bson:"visible"                 json:"visible"`
	Clicks        int64        `bson:"clicks"                  json:"clicks"`
	Layout        Layout       `bson:"layout"                  json:"layout"`
	Type          Type         `bson:"type"                    json:"type"`
	MediaURL      string       `bson:"mediaUrl,omitempty"      json:"mediaUrl,omitempty"`
	IconDetails   *IconDetails `bson:"iconDetails,omitempty"   json:"iconDetails,omitempty"`
	VisibleDate   string       `bson:"visibleDate,omitempty"   json:"visibleDate,omitempty"`
	LaunchDate    string       `bson:"launchDate,omitempty"    json:"launchDate,omitempty"`
	Animation     *Animation   `bson:"animation,omitempty"     json:"animation,omitempty"`
	ProgressValue *float64     `bson:"progressValue,omitempty" json:"progressValue,omitempty"`
	Counters      []Counter    `bson:"counters,omitempty"      json:"counters,omitempty"`
}

// Type is the closed set of component variants.
type Type int

const (
	TypeText Type = iota
	TypeImage
	TypeTextImage
	TypeIcon
	TypeVideo
	TypeLaunch
	TypeTextOverImage
	TypeMap
	TypeSpotify
	TypeProgressBar
	TypeCounter
)

type Layout struct {
	Rows    int `bson:"rows"    json:"rows"`
	Columns int `bson:"columns" json:"columns"`
}

type Animation struct {
	Name       string  `bson:"name"       json:"name"`
	StartDelay float64 `bson:"startDelay" json:"startDelay"`
	Duration   float64 `bson:"duration"   json:"duration"`
	Infinite   bool    `bson:"infinite"   json:"infinite"`
}

type IconDetails struct {
	UserFriendlyName string `bson:"userFriendlyName" json:"userFriendlyName"`
	Icon             string `bson:"icon"             json:"icon"`
}

type Counter struct {
	Number float64 `bson:"number" json:"number"`
	Label  string  `bson:"label"  json:"label"`
}

type Style struct {
	BackgroundColor    string `bson:"backgroundColor,omitempty"    json:"backgroundColor,omitempty"`
	BackgroundImage    string `bson:"backgroundImage,omitempty"    json:"backgroundImage,omitempty"`
	BackgroundSize     string `bson:"backgroundSize,omitempty"     json:"backgroundSize,omitempty"`
	BackgroundPosition string `bson:"backgroundPosition,omitempty" json:"backgroundPosition,omitempty"`
	Color              string `bson:"color,omitempty"              json:"color,omitempty"`
}

type CustomScripts struct {
	Header  string `bson:"header,omitempty"  json:"header,omitempty"`
	EndBody string `bson:"endBody,omitempty" json:"endBody,omitempty"`
}

// ComponentLists returns the three position groups in top, middle, bottom
// order. The slices alias the page's own component storage.
func (p *Page) ComponentLists() [][]Component {
	return [][]Component{
		p.TopComponents,
		p.MiddleComponents,
		p.BottomComponents,
	}
}

// ComponentIndex builds a lookup over all three lists keyed by component
// id. A duplicate id keeps its first occurrence in top, middle, bottom
// order, so an increment through the index touches exactly one component.
func (p *Page) ComponentIndex() map[string]*Component {
	index := make(map[string]*Component)

	for _, list := range p.ComponentLists() {
		for i := range list {
			id := list[i].ID
			if id == "" {
				continue
			}
			if _, ok := index[id]; ok {
				continue
			}
			index[id] = &list[i]
		}
	}

	return index
}

// FindComponent locates a component by id, first match in top, middle,
// bottom order. Returns nil when absent.
func (p *Page) FindComponent(componentID string) *Component {
	if componentID == "" {
		return nil
	}

	return p.ComponentIndex()[componentID]
}
