package entity

type (
	// Profile 用户资料
	// @Entity
	Profile struct {
		UserID int64 `gorm:"primaryKey"`
		Bio    string
	}

	NoID struct {
		Name string
	}

	TwoIDs struct {
		A int64 `gorm:"primaryKey"`
		// @Id
		B int64
	}
)

type Status int
