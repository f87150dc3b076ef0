package models

import "time"

// Center is a polling center. Code is unique within a tally.
type Center struct {
	CenterID          int        `gorm:"primaryKey;column:center_id" json:"center_id"`
	TallyID           int        `gorm:"column:tally_id;uniqueIndex:idx_center_tally_code" json:"tally_id"`
	Code              int        `gorm:"column:code;uniqueIndex:idx_center_tally_code" json:"code"`
	Name              string     `gorm:"column:name" json:"name"`
	OfficeName        string     `gorm:"column:office_name" json:"office_name"`
	Region            string     `gorm:"column:region" json:"region"`
	Village           string     `gorm:"column:village" json:"village"`
	Mahalla           string     `gorm:"column:mahalla" json:"mahalla"`
	Latitude          *float64   `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude         *float64   `gorm:"column:longitude" json:"longitude,omitempty"`
	CenterType        CenterType `gorm:"column:center_type" json:"center_type"`
	SubConstituencyID *int       `gorm:"column:sub_constituency_id" json:"sub_constituency_id,omitempty"`
	Active            bool       `gorm:"column:active;default:true" json:"active"`
	CreatedDate       time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate      time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	SubConstituency *SubConstituency `gorm:"foreignKey:SubConstituencyID" json:"sub_constituency,omitempty"`
	Stations        []Station        `gorm:"foreignKey:CenterID" json:"stations,omitempty"`
}

func (Center) TableName() string {
	return "centers"
}

// Station is a physical polling station inside a center. Registrants is nil
// when the roll size is unknown; the over-voting check skips in that case.
type Station struct {
	StationID         int       `gorm:"primaryKey;column:station_id" json:"station_id"`
	CenterID          int       `gorm:"column:center_id;uniqueIndex:idx_station_center_number" json:"center_id"`
	StationNumber     int       `gorm:"column:station_number;uniqueIndex:idx_station_center_number" json:"station_number"`
	SubConstituencyID *int      `gorm:"column:sub_constituency_id" json:"sub_constituency_id,omitempty"`
	Gender            Gender    `gorm:"column:gender" json:"gender"`
	Registrants       *int      `gorm:"column:registrants" json:"registrants,omitempty"`
	Active            bool      `gorm:"column:active;default:true" json:"active"`
	CreatedDate       time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate      time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Center Center `gorm:"foreignKey:CenterID" json:"center,omitempty"`
}

func (Station) TableName() string {
	return "stations"
}
