package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CatalogColumn is the persisted form of a base product. The eight
// compatibility flags mirror the fixed accessory category set; they are
// projected into a catalog.CompatibilitySet when the row is loaded.
type CatalogColumn struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	Reference    string    `gorm:"column:reference;uniqueIndex"`
	Description  string    `gorm:"column:description"`
	Pack         string    `gorm:"column:pack;type:varchar(20)"`
	HeightMeters float64   `gorm:"column:height_m"`
	ArmCount     int       `gorm:"column:arm_count;default:0"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	CompatLuminaire       bool `gorm:"column:compat_luminaire;default:false"`
	CompatElectricalPanel bool `gorm:"column:compat_electrical_panel;default:false"`
	CompatFuseBox         bool `gorm:"column:compat_fuse_box;default:false"`
	CompatTelemetry       bool `gorm:"column:compat_telemetry;default:false"`
	CompatEVCharger       bool `gorm:"column:compat_ev_charger;default:false"`
	CompatDisplayPanel    bool `gorm:"column:compat_display_panel;default:false"`
	CompatLateralPanel    bool `gorm:"column:compat_lateral_panel;default:false"`
	CompatAntenna         bool `gorm:"column:compat_antenna;default:false"`

	// Relationships
	Modules []CatalogModule `gorm:"many2many:catalog_column_modules;"`
}

// TableName specifies the table name for GORM
func (CatalogColumn) TableName() string {
	return "catalog_columns"
}

// CatalogModule is the persisted form of an accessory module. The power
// rating lives in a category-dependent column: watts for most categories,
// kilowatts for EV chargers, consumption watts for telemetry and display
// panels. Normalization to watts happens at load time.
type CatalogModule struct {
	ID               string    `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	Reference        string    `gorm:"column:reference;uniqueIndex"`
	Manufacturer     *string   `gorm:"column:manufacturer"`
	Category         string    `gorm:"column:category;type:varchar(30);index"`
	PowerWatts       *float64  `gorm:"column:power_watts"`
	PowerKilowatts   *float64  `gorm:"column:power_kw"`
	ConsumptionWatts *float64  `gorm:"column:power_consumption_watts"`
	IsActive         bool      `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (CatalogModule) TableName() string {
	return "catalog_modules"
}

// Asset is the surrounding dashboard's asset record. The engine only ever
// touches the two configuration fields: the column foreign key and the
// serialized configuration snapshot kept for audit/history.
type Asset struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	TenantID        string    `gorm:"column:tenant_id;type:uuid;index"`
	Name            string    `gorm:"column:name"`
	Latitude        *float64  `gorm:"column:latitude"`
	Longitude       *float64  `gorm:"column:longitude"`
	CatalogColumnID *string   `gorm:"column:catalog_column_id;type:uuid"`
	Configuration   JSONB     `gorm:"column:catalog_configuration;type:jsonb"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Asset) TableName() string {
	return "assets"
}

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		// sqlite hands jsonb columns back as strings
		str, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(str)
	}

	result := make(map[string]interface{})
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}

	*j = result
	return nil
}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
