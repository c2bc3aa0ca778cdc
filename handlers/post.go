package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mindscribble/posts"

	"github.com/gin-gonic/gin"
)

type CreatePostRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Status  string        `json:"status"`
	Tags    posts.TagList `json:"tags"`
}

// UpdatePostRequest uses pointers so an omitted field is distinguishable
// from an explicitly cleared one.
type UpdatePostRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Status  *string        `json:"status"`
	Tags    *posts.TagList `json:"tags"`
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func ListPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	params := posts.ListParams{
		Status: c.DefaultQuery("status", posts.StatusPublished),
		Author: c.Query("author"),
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 10),
	}

	items, pagination, err := postService.List(ctx, params)
	if err != nil {
		respondError(c, "ListPosts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Posts retrieved successfully",
		"posts":      items,
		"pagination": pagination,
	})
}

func GetPost(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := postService.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, "GetPost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post retrieved successfully",
		"post":    post,
	})
}

func GetUserPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	params := posts.ListParams{
		Status: c.DefaultQuery("status", posts.StatusPublished),
		Author: c.Param("userId"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 10),
	}

	items, pagination, err := postService.List(ctx, params)
	if err != nil {
		respondError(c, "GetUserPosts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "User posts retrieved successfully",
		"posts":      items,
		"pagination": pagination,
	})
}

func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := postService.Create(ctx, userID, posts.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(c, "CreatePost", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

func UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := postService.Update(ctx, userID, c.Param("id"), posts.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(c, "UpdatePost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

func DeletePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := postService.Delete(ctx, userID, c.Param("id")); err != nil {
		respondError(c, "DeletePost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func ToggleLike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := postService.ToggleLike(ctx, userID, c.Param("id"))
	if err != nil {
		respondError(c, "ToggleLike", err)
		return
	}

	message := "Post liked successfully"
	if !result.Liked {
		message = "Post unliked successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"liked":      result.Liked,
		"likesCount": result.LikesCount,
	})
}
