package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lanternhq/lantern/model"
	"github.com/lanternhq/lantern/server/middlewares"
	"github.com/lanternhq/lantern/server/service"
	Logger "github.com/lanternhq/lantern/utils/log"
)

// API wires the aggregation core to HTTP. The handlers stay thin: decode,
// call the service with the explicit viewer, encode or map the error.
type API struct {
	Service *service.Service
}

func NewAPI(svc *service.Service) *API {
	return &API{Service: svc}
}

// PostOutput is the plain record the presentation layer consumes; no
// markup, just content, aggregates and viewer flags.
type PostOutput struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Body         string    `json:"body"`
	Link         string    `json:"link"`
	ImageUrls    []string  `json:"image_urls"`
	CreatedAt    time.Time `json:"created_at"`
	Score        int       `json:"score"`
	CommentCount int       `json:"comment_count"`
	HasSaved     bool      `json:"has_saved"`
	Upvoted      bool      `json:"upvoted"`
	Downvoted    bool      `json:"downvoted"`

	Author       string `json:"author"`
	CategorySlug string `json:"category_slug"`
	CategoryName string `json:"category_name"`
}

type CommentOutput struct {
	Id         string    `json:"id"`
	Body       string    `json:"body"`
	PostID     string    `json:"post_id"`
	ReplyToID  *string   `json:"reply_to_id"`
	CreatedAt  time.Time `json:"created_at"`
	Score      int       `json:"score"`
	ReplyCount int       `json:"reply_count"`
	Upvoted    bool      `json:"upvoted"`
	Downvoted  bool      `json:"downvoted"`

	Author string `json:"author"`
}

func toPostOutput(post *model.Post) *PostOutput {
	var out PostOutput
	if err := copier.Copy(&out, post); err != nil {
		Logger.Log.Error("post output projection failed: ", err)
	}
	out.ImageUrls = []string(post.ImageUrls)
	out.Author = post.User.Handle
	out.CategorySlug = post.Category.Slug
	out.CategoryName = post.Category.Name
	return &out
}

func toCommentOutput(comment *model.Comment) *CommentOutput {
	var out CommentOutput
	if err := copier.Copy(&out, comment); err != nil {
		Logger.Log.Error("comment output projection failed: ", err)
	}
	out.Author = comment.User.Handle
	return &out
}

// abortWithError translates the core's typed errors into status codes; the
// core itself stays render-agnostic.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		Logger.Log.Error("internal error: ", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// RegisterRoutes mounts every endpoint of the core's surface.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/feed", a.getFeed)
	router.GET("/c/:slug", a.getCategory)
	router.GET("/c/:slug/feed", a.getCategoryFeed)
	router.GET("/categories", a.listCategories)
	router.POST("/categories", a.createCategory)
	router.GET("/random", a.randomCategory)
	router.POST("/c/:slug/subscribe", a.subscribe)
	router.DELETE("/c/:slug/subscribe", a.unsubscribe)

	router.GET("/p/:id", a.getPost)
	router.POST("/posts", a.createPost)
	router.POST("/posts/:id/save", a.savePost)
	router.DELETE("/posts/:id/save", a.unsavePost)
	router.POST("/posts/:id/comments", a.createComment)
	router.DELETE("/comments/:id", a.deleteComment)
	router.POST("/vote", a.castVote)

	router.GET("/u/:handle", a.getUser)
	router.GET("/users", a.listUsers)
	router.POST("/users", a.createUser)
	router.DELETE("/users/:id", a.deleteUser)

	router.POST("/messages", a.sendMessage)
	router.GET("/inbox", a.getInbox)
}

type feedQuery struct {
	Page       int  `form:"page"`
	Size       int  `form:"size"`
	Subscribed bool `form:"subscribed"`
}

func (a *API) getFeed(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	a.renderFeed(c, model.FeedFilter{SubscribedOnly: q.Subscribed}, model.PageToken{Page: q.Page, Size: q.Size})
}

func (a *API) getCategoryFeed(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	category, err := a.Service.GetCategoryBySlug(c.Request.Context(), viewer, c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	a.renderFeed(c, model.FeedFilter{CategoryID: category.Id}, model.PageToken{Page: q.Page, Size: q.Size})
}

func (a *API) renderFeed(c *gin.Context, filter model.FeedFilter, token model.PageToken) {
	viewer := middlewares.ViewerFrom(c)
	page, err := a.Service.BuildFeed(c.Request.Context(), viewer, filter, token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	outputs := make([]*PostOutput, 0, len(page.Posts))
	for _, post := range page.Posts {
		outputs = append(outputs, toPostOutput(post))
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":    outputs,
		"page":     page.Token.Page,
		"size":     page.Token.Size,
		"has_next": page.HasNext,
	})
}

func (a *API) getCategory(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	category, err := a.Service.GetCategoryBySlug(c.Request.Context(), viewer, c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (a *API) listCategories(c *gin.Context) {
	categories, err := a.Service.ListCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type newCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AvatarUrl   string `json:"avatar_url"`
}

func (a *API) createCategory(c *gin.Context) {
	var input newCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	category, err := a.Service.CreateCategory(c.Request.Context(), middlewares.ViewerFrom(c), input.Name, input.Description, input.AvatarUrl)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (a *API) randomCategory(c *gin.Context) {
	category, err := a.Service.PickRandomCategory(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (a *API) subscribe(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	category, err := a.Service.GetCategoryBySlug(c.Request.Context(), viewer, c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := a.Service.Subscribe(c.Request.Context(), viewer, category.Id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

func (a *API) unsubscribe(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	category, err := a.Service.GetCategoryBySlug(c.Request.Context(), viewer, c.Param("slug"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := a.Service.Unsubscribe(c.Request.Context(), viewer, category.Id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": false})
}

func (a *API) getPost(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	post, comments, err := a.Service.GetPost(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	commentOutputs := make([]*CommentOutput, 0, len(comments))
	for _, comment := range comments {
		commentOutputs = append(commentOutputs, toCommentOutput(comment))
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     toPostOutput(post),
		"comments": commentOutputs,
	})
}

func (a *API) createPost(c *gin.Context) {
	var input service.NewPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	post, err := a.Service.CreatePost(c.Request.Context(), middlewares.ViewerFrom(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *API) savePost(c *gin.Context) {
	if err := a.Service.SavePost(c.Request.Context(), middlewares.ViewerFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": true})
}

func (a *API) unsavePost(c *gin.Context) {
	if err := a.Service.UnsavePost(c.Request.Context(), middlewares.ViewerFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": false})
}

type newCommentInput struct {
	Body      string  `json:"body"`
	ReplyToID *string `json:"reply_to_id"`
}

func (a *API) createComment(c *gin.Context) {
	var input newCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	comment, err := a.Service.CreateComment(c.Request.Context(), middlewares.ViewerFrom(c), c.Param("id"), input.ReplyToID, input.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (a *API) deleteComment(c *gin.Context) {
	if err := a.Service.DeleteComment(c.Request.Context(), middlewares.ViewerFrom(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type voteInput struct {
	TargetKind model.TargetKind `json:"target_kind"`
	TargetID   string           `json:"target_id"`
	Choice     model.VoteChoice `json:"choice"`
}

func (a *API) castVote(c *gin.Context) {
	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	vote, err := a.Service.CastVote(c.Request.Context(), middlewares.ViewerFrom(c), input.TargetKind, input.TargetID, input.Choice)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, vote)
}

// getUser renders the user page: the account with its karma plus one page
// of the user's posts, ranked like the feed.
func (a *API) getUser(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	user, err := a.Service.GetUserByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	page, err := a.Service.ListPostsByUser(c.Request.Context(), viewer, user.Id, model.PageToken{Page: q.Page, Size: q.Size})
	if err != nil {
		abortWithError(c, err)
		return
	}
	outputs := make([]*PostOutput, 0, len(page.Posts))
	for _, post := range page.Posts {
		outputs = append(outputs, toPostOutput(post))
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"posts":    outputs,
		"page":     page.Token.Page,
		"size":     page.Token.Size,
		"has_next": page.HasNext,
	})
}

func (a *API) listUsers(c *gin.Context) {
	users, err := a.Service.ListUsersByKarma(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type newUserInput struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

func (a *API) createUser(c *gin.Context) {
	var input newUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	user, err := a.Service.CreateUser(c.Request.Context(), input.Handle, input.DisplayName)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (a *API) deleteUser(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	if viewer == "" || viewer != c.Param("id") {
		abortWithError(c, service.ErrUnauthorized)
		return
	}
	if err := a.Service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type newMessageInput struct {
	RecipientID string  `json:"recipient_id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	ReplyToID   *string `json:"reply_to_id"`
}

func (a *API) sendMessage(c *gin.Context) {
	var input newMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, service.ErrInvalidArgument)
		return
	}
	message, err := a.Service.SendMessage(c.Request.Context(), middlewares.ViewerFrom(c), input.RecipientID, input.Title, input.Content, input.ReplyToID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (a *API) getInbox(c *gin.Context) {
	messages, err := a.Service.ListInbox(c.Request.Context(), middlewares.ViewerFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
