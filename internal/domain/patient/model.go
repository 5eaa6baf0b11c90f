package patient

import (
	"time"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var validGenders = map[Gender]bool{
	GenderMale:   true,
	GenderFemale: true,
	GenderOther:  true,
}

type Patient struct {
	PatientID string    `json:"patient_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	Mobile    string    `json:"mobile"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInput struct {
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age" validate:"gte=0,lte=150"`
	Gender  Gender `json:"gender" validate:"required"`
	Mobile  string `json:"mobile" validate:"required"`
	Address string `json:"address"`
}

func (in *CreateInput) Validate() error {
	if in.Name == "" {
		return apperr.Validationf("name is required")
	}
	if in.Age < 0 || in.Age > 150 {
		return apperr.Validationf("age must be between 0 and 150, got %d", in.Age)
	}
	if !validGenders[in.Gender] {
		return apperr.Validationf("invalid gender: %s", in.Gender)
	}
	if in.Mobile == "" {
		return apperr.Validationf("mobile is required")
	}
	return nil
}
