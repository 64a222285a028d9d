package payments

import (
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetTotalRevenue sums all completed payment transactions
// @Summary Total platform revenue
// @Description Sum of all completed payment transactions, in major units
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "totalRevenue: decimal string"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions/revenue [get]
func GetTotalRevenue(c *gin.Context) {
	var total decimal.NullDecimal
	err := db.DB.Table("payment_transactions").
		Select("SUM(amount)").
		Where("status = ?", "completed").
		Scan(&total).Error
	if err != nil {
		utils.LogError(err, "Error computing total revenue in GetTotalRevenue")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing revenue"})
		return
	}

	revenue := decimal.Zero
	if total.Valid {
		revenue = total.Decimal
	}

	c.JSON(http.StatusOK, gin.H{"totalRevenue": revenue})
}

type topCreatorRow struct {
	CreatorID         string          `json:"creatorId"`
	UserName          string          `json:"username"`
	ActiveSubscribers int64           `json:"activeSubscribers"`
	Revenue           decimal.Decimal `json:"revenue"`
}

// GetTopCreators ranks creators by completed transaction revenue
// @Summary Top creators by revenue
// @Description Creators ordered by total completed transaction revenue, with their active subscriber counts
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} topCreatorRow
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions/top-creators [get]
func GetTopCreators(c *gin.Context) {
	var rows []topCreatorRow
	err := db.DB.Table("payment_transactions").
		Select(`payment_transactions.creator_id,
			users.user_name,
			SUM(payment_transactions.amount) AS revenue,
			COUNT(DISTINCT subscriptions.id) AS active_subscribers`).
		Joins("JOIN users ON users.id = payment_transactions.creator_id").
		Joins(`LEFT JOIN subscriptions ON subscriptions.creator_id = payment_transactions.creator_id
			AND subscriptions.status = 'active'`).
		Where("payment_transactions.status = ?", "completed").
		Group("payment_transactions.creator_id, users.user_name").
		Order("revenue DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		utils.LogError(err, "Error computing top creators in GetTopCreators")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing top creators"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
