package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/database"
	"github.com/hokuto/construction-finance-api/internal/models"
)

// RequireContractorAccess checks if the user shares a project with the
// contractor. Direct contractor routes carry no project ID, so access is
// granted when any of the user's projects links the contractor.
func RequireContractorAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		contractorIDStr := c.Param("id")
		contractorID, err := strconv.ParseUint(contractorIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid contractor ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var contractor models.Contractor
		if err := database.GetDB().First(&contractor, contractorID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Contractor not found",
			})
			c.Abort()
			return
		}

		// Creator always has access; otherwise require a shared project
		if contractor.UserID != userID {
			var count int64
			err = database.GetDB().
				Table("project_contractors").
				Joins("JOIN project_members ON project_members.project_id = project_contractors.project_id").
				Where("project_contractors.contractor_id = ? AND project_members.user_id = ?", contractorID, userID).
				Count(&count).Error
			if err != nil || count == 0 {
				// Return 404 instead of 403 to avoid leaking contractor existence
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Contractor not found",
				})
				c.Abort()
				return
			}
		}

		c.Set("contractor", contractor)
		c.Next()
	}
}

// RequireChangeOrderAccess checks if the user is a member of the change
// order's project
func RequireChangeOrderAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		changeOrderIDStr := c.Param("id")
		changeOrderID, err := strconv.ParseUint(changeOrderIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid change order ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var changeOrder models.ChangeOrder
		if err := database.GetDB().First(&changeOrder, changeOrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Change order not found",
			})
			c.Abort()
			return
		}

		var member models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ?", changeOrder.ProjectID, userID).
			First(&member).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Change order not found",
			})
			c.Abort()
			return
		}

		c.Set("change_order", changeOrder)
		c.Next()
	}
}

// RequireInvoiceAccess checks if the user is a member of the invoice's
// project
func RequireInvoiceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceIDStr := c.Param("id")
		invoiceID, err := strconv.ParseUint(invoiceIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid invoice ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var invoice models.Invoice
		if err := database.GetDB().First(&invoice, invoiceID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Invoice not found",
			})
			c.Abort()
			return
		}

		var member models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ?", invoice.ProjectID, userID).
			First(&member).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Invoice not found",
			})
			c.Abort()
			return
		}

		c.Set("invoice", invoice)
		c.Next()
	}
}
