package model

// Worker is an external tradesperson assignable to maintenance
// requests whose category matches theirs.
type Worker struct {
	WorkerID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"worker_id"`
	Name        string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Initials    string  `gorm:"type:varchar(5);not null"                       json:"initials"`
	Specialty   string  `gorm:"type:varchar(100)"                              json:"specialty,omitempty"`
	Category    string  `gorm:"type:varchar(50);not null"                      json:"category"`
	Phone       string  `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Rating      float64 `gorm:"type:numeric(3,2);not null;default:0"           json:"rating"`
	Description string  `gorm:"type:text"                                      json:"description,omitempty"`
	Favorite    bool    `gorm:"not null;default:false"                         json:"favorite"`
	VersionedModel
}

func (Worker) TableName() string { return "workers" }
