package http

import (
	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/pkg/authsdk"
)

func toUserResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		FacultyStatus:   string(u.FacultyStatus),
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}

func toFacultyRequestResponse(r service.FacultyReview) authsdk.FacultyRequestResponse {
	return authsdk.FacultyRequestResponse{
		ID:          r.Request.ID,
		Department:  r.Request.Department,
		Designation: r.Request.Designation,
		Expertise:   r.Request.Expertise,
		Status:      string(r.Request.Status),
		ReviewedBy:  r.Request.ReviewedBy,
		ReviewedAt:  r.Request.ReviewedAt,
		CreatedAt:   r.Request.CreatedAt,
		User:        toUserResponse(r.User),
	}
}

func toSessionResponse(s service.Session) authsdk.SessionResponse {
	return authsdk.SessionResponse{
		AccessToken:           s.AccessToken,
		AccessTokenExpiresAt:  s.AccessTokenExpiresAt,
		RefreshToken:          s.RefreshToken,
		RefreshTokenExpiresAt: s.RefreshTokenExpiresAt,
		TokenType:             s.TokenType,
		User:                  toUserResponse(s.User),
	}
}

func message(msg string) authsdk.MessageResponse {
	return authsdk.MessageResponse{Message: msg}
}
