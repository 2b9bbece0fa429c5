package model

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema
var DatabaseModels = []interface{}{
	&ScenarioRecord{},
	&PlatformTrack{},
}

// ScenarioRecord is one saved scenario. Document holds the scenario's JSON
// encoding, which is authoritative; the XML rendering is derived on demand.
type ScenarioRecord struct {
	gorm.Model
	Name     string         `json:"name" gorm:"size:255;uniqueIndex"`
	Document datatypes.JSON `json:"document"`
}

// PlatformTrack caches a platform's sampled motion track for map display.
// Geometry is a LineString in EPSG:3857.
type PlatformTrack struct {
	gorm.Model
	ScenarioID uint           `json:"scenarioId" gorm:"index"`
	Scenario   ScenarioRecord `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:ScenarioID;"`
	Platform   string         `json:"platform" gorm:"size:255"`
	Role       string         `json:"role" gorm:"size:32"`
	Geometry   geom.Geometry  `json:"-"`
}
