package model

// Rater types. Tenants and landlords rate independently; one rating
// per (request, rater) pair, enforced by a unique constraint.
const (
	RaterTenant   = "tenant"
	RaterLandlord = "landlord"
)

// WorkerRating is a 1-5 star review of a worker on a completed request.
type WorkerRating struct {
	RatingID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"rating_id"`
	RequestID string `gorm:"type:uuid;not null;uniqueIndex:worker_ratings_one_per_rater" json:"request_id"`
	WorkerID  string `gorm:"type:uuid;not null"                                  json:"worker_id"`
	RaterID   string `gorm:"type:uuid;not null;uniqueIndex:worker_ratings_one_per_rater" json:"rater_id"`
	RaterType string `gorm:"type:varchar(10);not null"                           json:"rater_type"`
	Rating    int    `gorm:"not null"                                            json:"rating"`
	Comment   string `gorm:"type:text"                                           json:"comment,omitempty"`
	BaseModel
}

func (WorkerRating) TableName() string { return "worker_ratings" }
