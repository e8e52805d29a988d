package controller

import (
	"errors"
	"net/http"
	"strconv"

	"moviehub/pkg/comments"
	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	commentService "moviehub/service-api/internal/service/comment"

	"github.com/gin-gonic/gin"
)

// CommentController handles movie comment requests
type CommentController struct {
	commentService commentService.Service
}

// NewCommentController creates a new comment controller
func NewCommentController(commentService commentService.Service) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// ListComments returns the comments of a movie, newest first
func (cc *CommentController) ListComments(c *gin.Context) {
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	list := cc.commentService.List(c.Request.Context(), movieID)
	c.JSON(http.StatusOK, gin.H{
		"comments": list,
		"total":    len(list),
	})
}

// CreateComment posts a comment as the signed-in user
func (cc *CommentController) CreateComment(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(err, "failed to bind comment request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	comment, err := cc.commentService.Create(c.Request.Context(), movieID, claims, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, comments.ErrEmptyText), errors.Is(err, comments.ErrTextTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error(err, "failed to create comment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment removes a comment written by the signed-in user
func (cc *CommentController) DeleteComment(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseInt(c.Param("commentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	err = cc.commentService.Delete(c.Request.Context(), movieID, commentID, claims)
	if err != nil {
		switch {
		case errors.Is(err, commentService.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		case errors.Is(err, commentService.ErrNotCommentOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another user's comment"})
		default:
			logger.Error(err, "failed to delete comment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
