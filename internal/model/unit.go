package model

// OrgUnit is an organizational unit (direccion). Directors, staff and
// activities all reference one.
type OrgUnit struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}
