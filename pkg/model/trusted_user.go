package model

// TrustedUser is a trust edge: a principal ARN that appears under
// Statement[].Principal.AWS in a role's trust policy.
type TrustedUser struct {
	ID        int    `gorm:"column:id;primaryKey;autoIncrement"`
	UserArn   string `gorm:"column:user_arn"`
	AccountID string `gorm:"column:account_id"`
	RoleID    int    `gorm:"column:role_id"`
}

func (TrustedUser) TableName() string {
	return "trusted_users"
}
