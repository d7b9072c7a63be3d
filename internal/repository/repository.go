package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	Profile            ProfileRepository
	Property           PropertyRepository
	Worker             WorkerRepository
	MaintenanceRequest MaintenanceRequestRepository
	WorkerRating       WorkerRatingRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Profile:            NewProfileRepo(db),
		Property:           NewPropertyRepo(db),
		Worker:             NewWorkerRepo(db),
		MaintenanceRequest: NewMaintenanceRequestRepo(db),
		WorkerRating:       NewWorkerRatingRepo(db),
	}
}
