package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is an ordered list of strings persisted as a JSON array
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}

	return json.Unmarshal(bytes, a)
}

// GormDataType reports the generic column type
func (StringArray) GormDataType() string {
	return "json"
}

// GormDBDataType picks jsonb on postgres and text elsewhere
func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// Recipe is the single stored entity. ID, timestamps and Version are owned by
// the store; handlers never set them.
type Recipe struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"_id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Ingredients StringArray `gorm:"not null" json:"ingredients"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Version     int64       `gorm:"not null;default:0" json:"__v"`
}

// TableName pins the table name regardless of naming strategy
func (Recipe) TableName() string {
	return "recipes"
}

// RecipePatch carries the fields of a partial update. Nil means "leave as is".
type RecipePatch struct {
	Name        *string
	Description *string
	Ingredients *[]string
}

// IsEmpty reports whether the patch would change nothing
func (p RecipePatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Ingredients == nil
}
