package handlers

import (
	"errors"
	"log"
	"net/http"

	"mindscribble/posts"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var postService *posts.Service

// SetPostService wires the feed service into the handler funcs.
func SetPostService(svc *posts.Service) {
	postService = svc
}

// callerID reads the authenticated user id the JWT middleware stored in the
// context. The second return is false when the id is missing or malformed.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

// respondError maps a service error to the HTTP status and message body the
// client expects. Store internals never reach the response; they go to the
// log only.
func respondError(c *gin.Context, op string, err error) {
	var ve *posts.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  []string{ve.Message},
		})
	case errors.Is(err, posts.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID"})
	case errors.Is(err, posts.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
	case errors.Is(err, posts.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied. You can only modify your own posts"})
	case errors.Is(err, posts.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Duplicate resource"})
	default:
		log.Printf("%s error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
