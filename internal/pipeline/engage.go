package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajayverse/devpulse/internal/linkedin"
	"github.com/ajayverse/devpulse/internal/models"
	"github.com/ajayverse/devpulse/internal/state"
)

// recentPostWindow is how many of the author's latest posts the
// auto-reply pass inspects.
const recentPostWindow = 5

// fallbackReplies are used when the text gateway has nothing.
var fallbackReplies = []string{
	"Thanks for reading! Great point.",
	"Appreciate you sharing your perspective here.",
	"Good question. What has worked for your team?",
	"Thanks for the comment! Always happy to compare notes.",
}

// EngageClient is the slice of the LinkedIn client the engagement pass
// needs.
type EngageClient interface {
	AuthorURN(ctx context.Context) (string, error)
	ListOwnPosts(ctx context.Context, limit int) ([]linkedin.Post, error)
	ListComments(ctx context.Context, postURN string) ([]linkedin.Comment, error)
	CreateComment(ctx context.Context, postURN, parentCommentURN, text string) error
	Like(ctx context.Context, postURN string) error
	CreateConnectionRequest(ctx context.Context, profileID, message string) error
}

// ReplyGateway generates reply text; ok=false falls back to canned
// replies.
type ReplyGateway interface {
	Complete(ctx context.Context, prompt string, task models.TaskType, maxTokens int) (string, bool)
}

// EngageOptions gates and caps the engagement pass.
type EngageOptions struct {
	AutoReply   bool
	Likes       bool
	Connections bool

	MaxReplies     int
	MaxLikes       int
	MaxConnections int

	ConnectionTargets []string
	ConnectionNote    string
}

// EngageStats counts what one pass did.
type EngageStats struct {
	PostsChecked    int
	CommentsFound   int
	RepliesSent     int
	LikesGiven      int
	ConnectionsSent int
}

// Engager answers comments on the author's recent posts, likes them,
// and sends queued connection requests, all within per-run caps.
// Failures on individual actions are logged and skipped.
type Engager struct {
	opts   EngageOptions
	store  *state.Store
	client EngageClient
	gw     ReplyGateway
	logger *logrus.Logger
}

func NewEngager(opts EngageOptions, store *state.Store, client EngageClient, gw ReplyGateway, logger *logrus.Logger) *Engager {
	return &Engager{opts: opts, store: store, client: client, gw: gw, logger: logger}
}

// Engage runs one engagement pass and persists the updated histories.
func (e *Engager) Engage(ctx context.Context) EngageStats {
	var stats EngageStats
	if !e.opts.AutoReply && !e.opts.Likes && !e.opts.Connections {
		return stats
	}

	st := e.store.LoadState()

	if e.opts.AutoReply || e.opts.Likes {
		e.engageComments(ctx, st, &stats)
	}
	if e.opts.Connections {
		e.sendConnections(ctx, st, &stats)
	}

	if err := e.store.SaveState(st); err != nil {
		e.logger.WithError(err).Error("Failed to save engagement state")
	}

	e.logger.WithFields(logrus.Fields{
		"posts_checked": stats.PostsChecked,
		"replies_sent":  stats.RepliesSent,
		"likes_given":   stats.LikesGiven,
		"connections":   stats.ConnectionsSent,
	}).Info("Engagement pass complete")
	return stats
}

func (e *Engager) engageComments(ctx context.Context, st *state.PostedState, stats *EngageStats) {
	self, err := e.client.AuthorURN(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("Skipping comment engagement, no author identity")
		return
	}

	posts, err := e.client.ListOwnPosts(ctx, recentPostWindow)
	if err != nil {
		e.logger.WithError(err).Warn("Could not list own posts")
		return
	}

	for _, post := range posts {
		stats.PostsChecked++
		comments, err := e.client.ListComments(ctx, post.ID)
		if err != nil {
			e.logger.WithField("post", post.ID).WithError(err).Warn("Could not list comments")
			continue
		}

		for _, comment := range comments {
			if comment.Actor == self || comment.URN == "" {
				continue
			}
			stats.CommentsFound++

			if e.opts.Likes && stats.LikesGiven < e.opts.MaxLikes && !st.HasLiked(comment.URN) {
				if err := e.client.Like(ctx, comment.URN); err != nil {
					e.logger.WithError(err).Debug("Like failed")
				} else {
					st.AddLike(comment.URN)
					stats.LikesGiven++
				}
			}

			if !e.opts.AutoReply || stats.RepliesSent >= e.opts.MaxReplies || st.HasReplied(comment.URN) {
				continue
			}
			reply := e.replyText(ctx, comment.Message.Text)
			if err := e.client.CreateComment(ctx, post.ID, comment.URN, reply); err != nil {
				e.logger.WithError(err).Warn("Reply failed")
				continue
			}
			st.AddReply(comment.URN)
			stats.RepliesSent++
		}

		if stats.RepliesSent >= e.opts.MaxReplies && (!e.opts.Likes || stats.LikesGiven >= e.opts.MaxLikes) {
			return
		}
	}
}

func (e *Engager) replyText(ctx context.Context, commentText string) string {
	if e.gw != nil {
		prompt := fmt.Sprintf(
			"Write a friendly, helpful one or two sentence reply to this comment on a DevOps LinkedIn post. "+
				"No hashtags, no emojis, under 280 characters.\n\nComment: %s", commentText)
		if reply, ok := e.gw.Complete(ctx, prompt, models.TaskGeneration, 120); ok {
			reply = strings.TrimSpace(reply)
			if len(reply) > 20 && len(reply) <= 300 {
				return reply
			}
		}
	}
	return fallbackReplies[len(commentText)%len(fallbackReplies)]
}

func (e *Engager) sendConnections(ctx context.Context, st *state.PostedState, stats *EngageStats) {
	for _, profileID := range e.opts.ConnectionTargets {
		if stats.ConnectionsSent >= e.opts.MaxConnections {
			return
		}
		if profileID == "" || st.HasConnected(profileID) {
			continue
		}
		if err := e.client.CreateConnectionRequest(ctx, profileID, e.opts.ConnectionNote); err != nil {
			e.logger.WithField("profile", profileID).WithError(err).Warn("Connection request failed")
			continue
		}
		st.AddConnection(profileID)
		stats.ConnectionsSent++
	}
}
