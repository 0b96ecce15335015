package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xenithra/authcore/domain"
)

// AdminHandlers exposes the privileged operations: role changes and policy
// management. The casbin middleware gates every route in this group.
type AdminHandlers struct {
	userRepo  domain.UserRepository
	policySvc domain.PolicyService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(userRepo domain.UserRepository, policySvc domain.PolicyService) *AdminHandlers {
	return &AdminHandlers{userRepo: userRepo, policySvc: policySvc}
}

// UpdateRoleRequest represents a role change request.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type policyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// UpdateUserRole changes a credential's role. Roles are immutable by the
// principal; only this administrative operation mutates them.
func (h *AdminHandlers) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		respondError(c, domain.ErrInvalidRole)
		return
	}

	if err := h.userRepo.UpdateRole(c.Request.Context(), uint(id), role); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Role updated", gin.H{"user_id": id, "role": role})
}

// ListPolicies returns all authorization policies.
func (h *AdminHandlers) ListPolicies(c *gin.Context) {
	respond(c, http.StatusOK, "OK", gin.H{"policies": h.policySvc.GetPolicies()})
}

// AddPolicy adds an authorization policy.
func (h *AdminHandlers) AddPolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.policySvc.AddPolicy(req.Role, req.Resource, req.Action); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Policy added", nil)
}

// RemovePolicy removes an authorization policy.
func (h *AdminHandlers) RemovePolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.policySvc.RemovePolicy(req.Role, req.Resource, req.Action); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Policy removed", nil)
}
