package api

import (
	"net/http"

	"marketplace-service/internal/service"
	"marketplace-service/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setupReputationRoutes(v1 *gin.RouterGroup) {
	v1.POST("/reviews", h.createReview)
	v1.GET("/reviews", h.listReviews)
	v1.GET("/reviews/:id", h.getReview)
	v1.GET("/users/:id/reviews", h.listReviewsForUser)
	v1.DELETE("/reviews/:id", h.deleteReview)

	v1.GET("/user-ratings", h.listRatingSummaries)
	v1.GET("/users/:id/rating", h.getRatingSummary)
	v1.DELETE("/users/:id/rating", h.deleteRatingSummary)
}

func (h *Handler) setupNotificationRoutes(v1 *gin.RouterGroup) {
	v1.POST("/notifications", h.createNotification)
	v1.GET("/users/:id/notifications", h.listNotifications)
	v1.GET("/users/:id/notifications/unread", h.listUnreadNotifications)
	v1.GET("/users/:id/notifications/unread-count", h.unreadNotificationCount)
	v1.PUT("/notifications/:id/read", h.markNotificationRead)
	v1.PUT("/users/:id/notifications/mark-read", h.markAllNotificationsRead)
	v1.DELETE("/notifications/:id", h.deleteNotification)
}

func (h *Handler) setupCommunityRoutes(v1 *gin.RouterGroup) {
	v1.POST("/watchlist", h.addToWatchlist)
	v1.GET("/users/:id/watchlist", h.getWatchlist)
	v1.DELETE("/users/:id/watchlist/:listing_id", h.removeFromWatchlist)

	v1.POST("/comments", h.createComment)
	v1.GET("/listings/:id/comments", h.listCommentsForListing)
	v1.PUT("/comments/:id/answer", h.answerComment)
	v1.DELETE("/comments/:id", h.deleteComment)

	v1.POST("/reports", h.createReport)
	v1.GET("/reports", h.listReports)
	v1.GET("/reports/:id", h.getReport)
	v1.GET("/listings/:id/reports", h.listReportsForListing)
	v1.DELETE("/reports/:id", h.deleteReport)

	v1.POST("/messages", h.sendMessage)
	v1.GET("/users/:id/messages", h.listMessagesForUser)
	v1.PUT("/messages/:id/read", h.markMessageRead)
	v1.DELETE("/messages/:id", h.deleteMessage)
}

func (h *Handler) setupUserRoutes(v1 *gin.RouterGroup) {
	v1.POST("/users", h.createUser)
	v1.GET("/users", h.listUsers)
	v1.GET("/users/:id", h.getUser)
	v1.PUT("/users/:id", h.updateUser)
	v1.DELETE("/users/:id", h.deleteUser)

	v1.POST("/categories", h.createCategory)
	v1.GET("/categories", h.listCategories)
	v1.DELETE("/categories/:id", h.deleteCategory)

	v1.POST("/images", h.createImage)
	v1.GET("/images", h.listImages)
	v1.GET("/images/:id", h.getImage)
	v1.GET("/listings/:id/images", h.listImagesForListing)
	v1.DELETE("/images/:id", h.deleteImage)
}

func (h *Handler) createReview(c *gin.Context) {
	var req service.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.reputation.CreateReview(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listReviews(c *gin.Context) {
	reviews, err := h.reputation.ListReviews(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) getReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := h.reputation.GetReview(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) listReviewsForUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reputation.ListReviewsForUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) deleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.reputation.DeleteReview(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Review")
}

func (h *Handler) listRatingSummaries(c *gin.Context) {
	summaries, err := h.reputation.ListRatingSummaries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": summaries})
}

func (h *Handler) getRatingSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.reputation.GetRatingSummary(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) deleteRatingSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.reputation.DeleteRatingSummary(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Rating summary")
}

type createNotificationRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	ListingID int64  `json:"listing_id" binding:"required"`
	Type      string `json:"notification_type" binding:"required"`
	Message   string `json:"notification_message" binding:"required"`
}

func (h *Handler) createNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	n, err := h.notifications.CreateNotification(c.Request.Context(),
		req.UserID, req.ListingID, req.Type, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) listNotifications(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.notifications.ListAll(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *Handler) listUnreadNotifications(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.notifications.ListUnread(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *Handler) unreadNotificationCount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "unread_count": count})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.notifications.MarkAllRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "marked_read": count})
}

func (h *Handler) deleteNotification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.DeleteNotification(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Notification")
}

type watchlistRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ListingID int64 `json:"listing_id" binding:"required"`
}

func (h *Handler) addToWatchlist(c *gin.Context) {
	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.community.AddToWatchlist(c.Request.Context(), req.UserID, req.ListingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) getWatchlist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.community.GetWatchlist(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": entries})
}

func (h *Handler) removeFromWatchlist(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	listingID, ok := parseID(c, "listing_id")
	if !ok {
		return
	}
	if err := h.community.RemoveFromWatchlist(c.Request.Context(), userID, listingID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Watchlist entry removed", "user_id": userID, "listing_id": listingID})
}

func (h *Handler) createComment(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	comment, err := h.community.CreateComment(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) listCommentsForListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comments, err := h.community.ListCommentsForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type answerCommentRequest struct {
	AnswerText string `json:"answer_text" binding:"required"`
}

func (h *Handler) answerComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req answerCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	comment, err := h.community.AnswerComment(c.Request.Context(), id, req.AnswerText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.community.DeleteComment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Comment")
}

func (h *Handler) createReport(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	report, err := h.community.CreateReport(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.community.ListReports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) getReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := h.community.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) listReportsForListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reports, err := h.community.ListReportsForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) deleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.community.DeleteReport(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Report")
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	msg, err := h.community.SendMessage(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) listMessagesForUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.community.ListMessagesForUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) markMessageRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	msg, err := h.community.MarkMessageRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) deleteMessage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.community.DeleteMessage(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Message")
}

func (h *Handler) createUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, &store.UserPatch{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "User")
}

type createCategoryRequest struct {
	Name string `json:"category_name" binding:"required"`
}

func (h *Handler) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	category, err := h.users.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.users.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteCategory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Category")
}

func (h *Handler) createImage(c *gin.Context) {
	var req service.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	image, err := h.users.CreateImage(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *Handler) listImages(c *gin.Context) {
	images, err := h.users.ListImages(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) getImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	image, err := h.users.GetImage(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

func (h *Handler) listImagesForListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	images, err := h.users.ListImagesForListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) deleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteImage(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	deleted(c, id, "Image")
}
