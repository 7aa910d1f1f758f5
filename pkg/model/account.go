package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Account represents a watched AWS account. The ID is the 12-digit AWS
// account number extracted from the cross-account role ARN.
type Account struct {
	ID             string   `gorm:"column:id;primaryKey"`
	AccountName    string   `gorm:"column:account_name"`
	RoleArn        string   `gorm:"column:role_arn"`
	RolesToAnalyze RoleList `gorm:"column:roles_to_analyze;type:json"`
}

func (Account) TableName() string {
	return "accounts"
}

// RoleList is the ordered set of role names to analyze for an account,
// stored as a JSON array.
type RoleList []string

func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		l = RoleList{}
	}
	return json.Marshal(l)
}

func (l *RoleList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = RoleList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", value)
	}
}
