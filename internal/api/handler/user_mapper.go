package handler

import (
	"github.com/karyawan/staff-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		PhoneNumber:    u.Profile.PhoneNumber,
		Address:        u.Profile.Address,
		ProfilePicture: u.Profile.ProfilePicture,
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
	if u.Profile.DateOfBirth != nil {
		dob := u.Profile.DateOfBirth.UTC().Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
