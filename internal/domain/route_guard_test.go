package domain_test

import (
	"testing"

	"github.com/mkrupp/shopcase/internal/domain"
)

func TestEvaluateRouteGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		resolution   domain.AuthResolution
		allowedRoles []domain.Role
		wantState    domain.GuardState
		wantRedirect string
	}{
		{
			name:         "loading stays pending",
			resolution:   domain.AuthResolution{Loading: true},
			allowedRoles: []domain.Role{domain.RoleAdmin},
			wantState:    domain.GuardPending,
		},
		{
			name:         "unauthenticated redirects to login",
			resolution:   domain.AuthResolution{},
			allowedRoles: []domain.Role{domain.RoleAdmin},
			wantState:    domain.GuardDenied,
			wantRedirect: domain.LoginPath,
		},
		{
			name: "client on admin route redirects to account home",
			resolution: domain.AuthResolution{
				Authenticated: true,
				Role:          domain.RoleClient,
			},
			allowedRoles: []domain.Role{domain.RoleAdmin},
			wantState:    domain.GuardDenied,
			wantRedirect: domain.AccountHomePath,
		},
		{
			name: "admin on client route redirects to admin home",
			resolution: domain.AuthResolution{
				Authenticated: true,
				Role:          domain.RoleAdmin,
			},
			allowedRoles: []domain.Role{domain.RoleClient},
			wantState:    domain.GuardDenied,
			wantRedirect: domain.AdminHomePath,
		},
		{
			name: "allowed role is authorized",
			resolution: domain.AuthResolution{
				Authenticated: true,
				Role:          domain.RoleAdmin,
			},
			allowedRoles: []domain.Role{domain.RoleAdmin},
			wantState:    domain.GuardAuthorized,
		},
		{
			name: "empty role list admits any authenticated user",
			resolution: domain.AuthResolution{
				Authenticated: true,
				Role:          domain.RoleClient,
			},
			allowedRoles: nil,
			wantState:    domain.GuardAuthorized,
		},
		{
			name:         "loading wins over missing authentication",
			resolution:   domain.AuthResolution{Loading: true, Authenticated: false},
			allowedRoles: nil,
			wantState:    domain.GuardPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decision := domain.EvaluateRouteGuard(tt.resolution, tt.allowedRoles)

			if decision.State != tt.wantState {
				t.Errorf("EvaluateRouteGuard() state = %v, want %v", decision.State, tt.wantState)
			}
			if decision.Redirect != tt.wantRedirect {
				t.Errorf("EvaluateRouteGuard() redirect = %q, want %q", decision.Redirect, tt.wantRedirect)
			}
		})
	}
}
