package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// create user with handle, do sanity checks and return the row
func TestCreateUser(t *testing.T, db *gorm.DB, handle string) *model.User {
	t.Helper()
	user := model.User{
		Id:          uuid.New().String(),
		Handle:      handle,
		DisplayName: handle,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotEmpty(t, user.Id)
	return &user
}

// create category with name, do sanity checks and return the row
func TestCreateCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := model.Category{
		Id:   uuid.New().String(),
		Name: name,
		Slug: model.Slugify(name),
	}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

// create post under category by author, optionally backdated so ordering
// tests can control recency
func TestCreatePost(t *testing.T, db *gorm.DB, author *model.User, category *model.Category, title string, createdAt time.Time) *model.Post {
	t.Helper()
	post := model.Post{
		Id:         uuid.New().String(),
		Title:      title,
		Slug:       model.Slugify(title),
		CategoryID: category.Id,
		UserID:     author.Id,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

// create a top-level comment on post by author
func TestCreateComment(t *testing.T, db *gorm.DB, author *model.User, post *model.Post, body string) *model.Comment {
	t.Helper()
	comment := model.Comment{
		Id:     uuid.New().String(),
		Body:   body,
		PostID: post.Id,
		UserID: author.Id,
	}
	require.NoError(t, db.Create(&comment).Error)
	return &comment
}

// SQLCounter is a gorm logger that counts every executed statement. Tests
// use it to pin down query counts, e.g. that annotating a page for an
// anonymous viewer issues zero lookups and that bulk aggregation stays flat
// in the page size.
type SQLCounter struct {
	logger.Interface
	count int64
}

func (c *SQLCounter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	atomic.AddInt64(&c.count, 1)
	c.Interface.Trace(ctx, begin, fc, err)
}

// Count returns the number of statements traced so far.
func (c *SQLCounter) Count() int64 {
	return atomic.LoadInt64(&c.count)
}

// Reset zeroes the counter.
func (c *SQLCounter) Reset() {
	atomic.StoreInt64(&c.count, 0)
}

// WithSQLCounter returns a session of db whose statements are counted, plus
// the counter itself.
func WithSQLCounter(db *gorm.DB) (*gorm.DB, *SQLCounter) {
	counter := &SQLCounter{Interface: logger.Default.LogMode(logger.Silent)}
	return db.Session(&gorm.Session{Logger: counter}), counter
}
