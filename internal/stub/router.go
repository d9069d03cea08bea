package stub

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
)

const userIDContextKey = "fasterfoods_user_id"

var (
	errMissingDatabase      = errors.New("database dependency required")
	errMissingTokenManager  = errors.New("token manager dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// TokenManager mints and validates bearer tokens for the development server.
type TokenManager interface {
	IssueDevToken(userID string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies assembles the router's collaborators.
type Dependencies struct {
	DB           *gorm.DB
	TokenManager TokenManager
	Logger       *zap.Logger
}

// NewHTTPHandler builds the development server's HTTP surface: a health
// probe, a dev-token endpoint, and the authenticated /v1 resource routes the
// sync client talks to.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.DB == nil {
		return nil, errMissingDatabase
	}
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		db:     deps.DB,
		tokens: deps.TokenManager,
		logger: logger,
	}

	router.GET("/v1/healthz", handler.handleHealthz)
	router.POST("/v1/auth/dev-token", handler.handleDevToken)

	protected := router.Group("/v1")
	protected.Use(handler.authorizeRequest)
	protected.GET("/state", handler.handleState)

	protected.POST("/pantry", handler.handleCreatePantryItem)
	protected.PUT("/pantry/:id", handler.handleUpdatePantryItem)
	protected.POST("/pantry/:id/toggle", handler.handleTogglePantryItem)
	protected.DELETE("/pantry/:id", handler.handleDeletePantryItem)

	protected.POST("/shopping-lists", handler.handleCreateShoppingList)
	protected.DELETE("/shopping-lists/:id", handler.handleDeleteShoppingList)
	protected.POST("/shopping-lists/:id/items", handler.handleCreateShoppingItem)
	protected.POST("/shopping-lists/:id/items/:itemID/toggle", handler.handleToggleShoppingItem)
	protected.DELETE("/shopping-lists/:id/items/:itemID", handler.handleDeleteShoppingItem)

	protected.POST("/food-logs", handler.handleCreateFoodLog)
	protected.DELETE("/food-logs/:id", handler.handleDeleteFoodLog)

	protected.POST("/workouts", handler.handleCreateWorkout)
	protected.DELETE("/workouts/:id", handler.handleDeleteWorkout)

	protected.POST("/metrics", handler.handleCreateMetric)
	protected.DELETE("/metrics/:id", handler.handleDeleteMetric)

	return router, nil
}

type httpHandler struct {
	db     *gorm.DB
	tokens TokenManager
	logger *zap.Logger
}

func (h *httpHandler) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type devTokenRequestPayload struct {
	UserID string `json:"user_id"`
}

type devTokenResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleDevToken(c *gin.Context) {
	var request devTokenRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	token, expiresIn, err := h.tokens.IssueDevToken(strings.TrimSpace(request.UserID))
	if err != nil {
		h.logger.Error("failed to issue dev token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, devTokenResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	subject, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userIDContextKey, subject)
	c.Next()
}

func (h *httpHandler) userID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDContextKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

type statePayload struct {
	User          *domain.UserProfile   `json:"user,omitempty"`
	Settings      *domain.Settings      `json:"settings,omitempty"`
	PantryItems   []domain.PantryItem   `json:"pantryItems"`
	ShoppingLists []domain.ShoppingList `json:"shoppingLists"`
	FoodLogItems  []domain.FoodLogItem  `json:"foodLogItems"`
	WorkoutItems  []domain.WorkoutItem  `json:"workoutItems"`
	CustomMetrics []domain.CustomMetric `json:"customMetrics"`
}

func (h *httpHandler) handleState(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	state := statePayload{
		PantryItems:   []domain.PantryItem{},
		ShoppingLists: []domain.ShoppingList{},
		FoodLogItems:  []domain.FoodLogItem{},
		WorkoutItems:  []domain.WorkoutItem{},
		CustomMetrics: []domain.CustomMetric{},
	}

	var profile ProfileRecord
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err == nil {
		state.User = &domain.UserProfile{ID: profile.UserID, Email: profile.Email, DisplayName: profile.DisplayName}
		state.Settings = &domain.Settings{
			CalorieTarget:    profile.CalorieTarget,
			ProteinTargetG:   profile.ProteinTargetG,
			WaterTargetML:    profile.WaterTargetML,
			WeightUnit:       profile.WeightUnit,
			RemindersEnabled: profile.RemindersEnabled,
		}
	}

	var pantry []PantryRecord
	if err := h.db.Where("user_id = ?", userID).Order("created_at").Find(&pantry).Error; err != nil {
		h.fail(c, "pantry query failed", err)
		return
	}
	for _, record := range pantry {
		state.PantryItems = append(state.PantryItems, record.toDomain())
	}

	var lists []ShoppingListRecord
	if err := h.db.Where("user_id = ?", userID).Order("created_at").Find(&lists).Error; err != nil {
		h.fail(c, "shopping list query failed", err)
		return
	}
	for _, listRecord := range lists {
		list := domain.ShoppingList{ID: listRecord.ID, Name: listRecord.Name, Items: []domain.ShoppingItem{}}
		var items []ShoppingItemRecord
		if err := h.db.Where("user_id = ? AND list_id = ?", userID, listRecord.ID).Order("created_at").Find(&items).Error; err != nil {
			h.fail(c, "shopping item query failed", err)
			return
		}
		for _, itemRecord := range items {
			list.Items = append(list.Items, itemRecord.toDomain())
		}
		state.ShoppingLists = append(state.ShoppingLists, list)
	}

	var foodLogs []FoodLogRecord
	if err := h.db.Where("user_id = ?", userID).Order("logged_at").Find(&foodLogs).Error; err != nil {
		h.fail(c, "food log query failed", err)
		return
	}
	for _, record := range foodLogs {
		state.FoodLogItems = append(state.FoodLogItems, record.toDomain())
	}

	var workouts []WorkoutRecord
	if err := h.db.Where("user_id = ?", userID).Order("logged_at").Find(&workouts).Error; err != nil {
		h.fail(c, "workout query failed", err)
		return
	}
	for _, record := range workouts {
		state.WorkoutItems = append(state.WorkoutItems, record.toDomain())
	}

	var metrics []MetricRecord
	if err := h.db.Where("user_id = ?", userID).Order("logged_at").Find(&metrics).Error; err != nil {
		h.fail(c, "metric query failed", err)
		return
	}
	for _, record := range metrics {
		state.CustomMetrics = append(state.CustomMetrics, record.toDomain())
	}

	c.JSON(http.StatusOK, state)
}

func (h *httpHandler) handleCreatePantryItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var item domain.PantryItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := PantryRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
		Category: item.Category,
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "pantry insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleUpdatePantryItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var item domain.PantryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var record PantryRecord
	if err := h.db.Where("user_id = ? AND id = ?", userID, c.Param("id")).First(&record).Error; err != nil {
		h.notFoundOrFail(c, "pantry lookup failed", err)
		return
	}
	record.Name = item.Name
	record.Quantity = item.Quantity
	record.Unit = item.Unit
	record.Category = item.Category
	if err := h.db.Save(&record).Error; err != nil {
		h.fail(c, "pantry update failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type togglePayload struct {
	Checked bool `json:"checked"`
}

func (h *httpHandler) handleTogglePantryItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var request togglePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var record PantryRecord
	if err := h.db.Where("user_id = ? AND id = ?", userID, c.Param("id")).First(&record).Error; err != nil {
		h.notFoundOrFail(c, "pantry lookup failed", err)
		return
	}
	record.Checked = request.Checked
	if err := h.db.Save(&record).Error; err != nil {
		h.fail(c, "pantry toggle failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleDeletePantryItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &PantryRecord{}, userID, c.Param("id"), "pantry delete failed")
}

type createListPayload struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleCreateShoppingList(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var request createListPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := ShoppingListRecord{ID: uuid.NewString(), UserID: userID, Name: request.Name}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "shopping list insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleDeleteShoppingList(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	listID := c.Param("id")

	var record ShoppingListRecord
	if err := h.db.Where("user_id = ? AND id = ?", userID, listID).First(&record).Error; err != nil {
		h.notFoundOrFail(c, "shopping list lookup failed", err)
		return
	}
	if err := h.db.Where("user_id = ? AND list_id = ?", userID, listID).Delete(&ShoppingItemRecord{}).Error; err != nil {
		h.fail(c, "shopping item cascade failed", err)
		return
	}
	if err := h.db.Delete(&record).Error; err != nil {
		h.fail(c, "shopping list delete failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleCreateShoppingItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	listID := c.Param("id")

	var list ShoppingListRecord
	if err := h.db.Where("user_id = ? AND id = ?", userID, listID).First(&list).Error; err != nil {
		h.notFoundOrFail(c, "shopping list lookup failed", err)
		return
	}

	var item domain.ShoppingItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := ShoppingItemRecord{
		ID:       uuid.NewString(),
		ListID:   listID,
		UserID:   userID,
		Name:     item.Name,
		Quantity: item.Quantity,
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "shopping item insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleToggleShoppingItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var request togglePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var record ShoppingItemRecord
	err := h.db.Where("user_id = ? AND list_id = ? AND id = ?", userID, c.Param("id"), c.Param("itemID")).First(&record).Error
	if err != nil {
		h.notFoundOrFail(c, "shopping item lookup failed", err)
		return
	}
	record.Checked = request.Checked
	if err := h.db.Save(&record).Error; err != nil {
		h.fail(c, "shopping item toggle failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleDeleteShoppingItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var record ShoppingItemRecord
	err := h.db.Where("user_id = ? AND list_id = ? AND id = ?", userID, c.Param("id"), c.Param("itemID")).First(&record).Error
	if err != nil {
		h.notFoundOrFail(c, "shopping item lookup failed", err)
		return
	}
	if err := h.db.Delete(&record).Error; err != nil {
		h.fail(c, "shopping item delete failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleCreateFoodLog(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var item domain.FoodLogItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := FoodLogRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     item.Name,
		MealType: item.MealType,
		Calories: item.Calories,
		ProteinG: item.ProteinG,
		CarbsG:   item.CarbsG,
		FatG:     item.FatG,
		LoggedAt: item.LoggedAt,
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "food log insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleDeleteFoodLog(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &FoodLogRecord{}, userID, c.Param("id"), "food log delete failed")
}

func (h *httpHandler) handleCreateWorkout(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var item domain.WorkoutItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := WorkoutRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            item.Name,
		DurationMinutes: item.DurationMinutes,
		CaloriesBurned:  item.CaloriesBurned,
		LoggedAt:        item.LoggedAt,
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "workout insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleDeleteWorkout(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &WorkoutRecord{}, userID, c.Param("id"), "workout delete failed")
}

func (h *httpHandler) handleCreateMetric(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var metric domain.CustomMetric
	if err := c.ShouldBindJSON(&metric); err != nil || strings.TrimSpace(metric.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	record := MetricRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     metric.Name,
		Unit:     metric.Unit,
		Value:    metric.Value,
		LoggedAt: metric.LoggedAt,
	}
	if err := h.db.Create(&record).Error; err != nil {
		h.fail(c, "metric insert failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

func (h *httpHandler) handleDeleteMetric(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	h.deleteByID(c, &MetricRecord{}, userID, c.Param("id"), "metric delete failed")
}

// deleteByID removes one row owned by the user, answering 404 when no such
// row exists so clients can prune operations against vanished targets.
func (h *httpHandler) deleteByID(c *gin.Context, model any, userID, id, failMessage string) {
	result := h.db.Where("user_id = ? AND id = ?", userID, id).Delete(model)
	if result.Error != nil {
		h.fail(c, failMessage, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) notFoundOrFail(c *gin.Context, message string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	h.fail(c, message, err)
}

func (h *httpHandler) fail(c *gin.Context, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
