package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/leadsvc/domain"
)

// PolicyHandlers manages casbin role policies under /api/admin/policies
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

type policyReq struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "policies": h.policySvc.GetPolicies()})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.policySvc.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		respondPolicyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Policy added"})
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.policySvc.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		respondPolicyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Policy removed"})
}

func respondPolicyError(c *gin.Context, err error) {
	if err == domain.ErrMissingFields {
		respondError(c, http.StatusBadRequest, "Please provide role, resource and action")
		return
	}
	respondError(c, http.StatusInternalServerError, "Failed to update policies")
}
