package state

import "time"

// maxPostedLinks caps the posted-link history so the state file does
// not grow without bound.
const maxPostedLinks = 5000

// maxEngagementHistory caps the replied-comment and connected-profile
// histories.
const maxEngagementHistory = 2000

// PostedState is the durable record of posting history. It is the
// single source of truth across runs and is read once at the start of
// a cycle and written once after the publish attempt.
type PostedState struct {
	PostedLinks  []string             `json:"posted_links"`
	TopicHashes  map[string]time.Time `json:"topic_hashes"`
	LastPostedAt *time.Time           `json:"last_posted_at,omitempty"`
	LastPostID   string               `json:"last_post_id,omitempty"`
	LastFormat   string               `json:"last_format,omitempty"`
	LastErrorAt  *time.Time           `json:"last_error_at,omitempty"`
	LastErrorMsg string               `json:"last_error_msg,omitempty"`

	RepliedComments   []string `json:"replied_comments,omitempty"`
	LikedComments     []string `json:"liked_comments,omitempty"`
	ConnectedProfiles []string `json:"connected_profiles,omitempty"`
}

// NewPostedState returns an empty state with initialized containers.
func NewPostedState() *PostedState {
	return &PostedState{
		PostedLinks: []string{},
		TopicHashes: map[string]time.Time{},
	}
}

// HasLink reports whether a link was already published.
func (s *PostedState) HasLink(link string) bool {
	for _, l := range s.PostedLinks {
		if l == link {
			return true
		}
	}
	return false
}

// HasTopic reports whether a topic fingerprint was used within the
// dedup window ending at now.
func (s *PostedState) HasTopic(fingerprint string, window time.Duration, now time.Time) bool {
	at, ok := s.TopicHashes[fingerprint]
	if !ok {
		return false
	}
	return now.Sub(at) < window
}

// AddPost records a successful publish.
func (s *PostedState) AddPost(link, fingerprint, postID, format string, now time.Time) {
	if link != "" && !s.HasLink(link) {
		s.PostedLinks = append(s.PostedLinks, link)
		if len(s.PostedLinks) > maxPostedLinks {
			s.PostedLinks = s.PostedLinks[len(s.PostedLinks)-maxPostedLinks:]
		}
	}
	if s.TopicHashes == nil {
		s.TopicHashes = map[string]time.Time{}
	}
	if fingerprint != "" {
		s.TopicHashes[fingerprint] = now
	}
	at := now
	s.LastPostedAt = &at
	s.LastPostID = postID
	s.LastFormat = format
	s.LastErrorAt = nil
	s.LastErrorMsg = ""
}

// RecordError notes a failed publish attempt.
func (s *PostedState) RecordError(msg string, now time.Time) {
	at := now
	s.LastErrorAt = &at
	s.LastErrorMsg = msg
}

// HasReplied reports whether a comment was already answered.
func (s *PostedState) HasReplied(commentURN string) bool {
	return containsString(s.RepliedComments, commentURN)
}

// AddReply records an answered comment.
func (s *PostedState) AddReply(commentURN string) {
	s.RepliedComments = appendCapped(s.RepliedComments, commentURN, maxEngagementHistory)
}

// HasLiked reports whether a comment was already liked.
func (s *PostedState) HasLiked(commentURN string) bool {
	return containsString(s.LikedComments, commentURN)
}

// AddLike records a liked comment.
func (s *PostedState) AddLike(commentURN string) {
	s.LikedComments = appendCapped(s.LikedComments, commentURN, maxEngagementHistory)
}

// HasConnected reports whether a connection request was already sent
// to a profile.
func (s *PostedState) HasConnected(profileID string) bool {
	return containsString(s.ConnectedProfiles, profileID)
}

// AddConnection records a sent connection request.
func (s *PostedState) AddConnection(profileID string) {
	s.ConnectedProfiles = appendCapped(s.ConnectedProfiles, profileID, maxEngagementHistory)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func appendCapped(list []string, v string, limit int) []string {
	if v == "" || containsString(list, v) {
		return list
	}
	list = append(list, v)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}

// PruneTopics drops fingerprints older than the dedup window.
func (s *PostedState) PruneTopics(window time.Duration, now time.Time) {
	for fp, at := range s.TopicHashes {
		if now.Sub(at) >= window {
			delete(s.TopicHashes, fp)
		}
	}
}
