// Package mock provides an in-memory repositories.Store for service and
// controller tests. It mirrors the SQLite store's constraints: unique emails
// and titles, existing references, and comment cascade on post delete.
package mock

import (
	"context"
	"sort"
	"sync"

	"quill/app/models"
	"quill/app/repositories"
)

type data struct {
	users         map[uint]models.User
	posts         map[uint]models.Post
	comments      map[uint]models.Comment
	nextUserID    uint
	nextPostID    uint
	nextCommentID uint
}

func (d *data) clone() *data {
	c := &data{
		users:         make(map[uint]models.User, len(d.users)),
		posts:         make(map[uint]models.Post, len(d.posts)),
		comments:      make(map[uint]models.Comment, len(d.comments)),
		nextUserID:    d.nextUserID,
		nextPostID:    d.nextPostID,
		nextCommentID: d.nextCommentID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.posts {
		c.posts[k] = v
	}
	for k, v := range d.comments {
		c.comments[k] = v
	}
	return c
}

// Store is an in-memory repositories.Store.
type Store struct {
	mutex *sync.Mutex
	data  *data
	inTx  bool
}

func NewStore() *Store {
	return &Store{
		mutex: &sync.Mutex{},
		data: &data{
			users:         make(map[uint]models.User),
			posts:         make(map[uint]models.Post),
			comments:      make(map[uint]models.Comment),
			nextUserID:    1,
			nextPostID:    1,
			nextCommentID: 1,
		},
	}
}

func (s *Store) Users() repositories.UserRepository       { return &UserRepository{s} }
func (s *Store) Posts() repositories.PostRepository       { return &PostRepository{s} }
func (s *Store) Comments() repositories.CommentRepository { return &CommentRepository{s} }

// WithTx runs fn against a snapshot and publishes it only if fn succeeds.
// The store stays locked for the whole call, so transactions are serialized
// and fn must only use tx.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.lock()
	defer s.unlock()

	snapshot := s.data.clone()
	tx := &Store{mutex: s.mutex, data: snapshot, inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	*s.data = *snapshot
	return nil
}

// Transactions share the parent's mutex, which WithTx already holds, so
// they skip locking.
func (s *Store) lock() {
	if !s.inTx {
		s.mutex.Lock()
	}
}

func (s *Store) unlock() {
	if !s.inTx {
		s.mutex.Unlock()
	}
}

// UserRepository implementation
type UserRepository struct{ s *Store }

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.s.lock()
	defer m.s.unlock()

	for _, u := range m.s.data.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.s.data.nextUserID
	m.s.data.nextUserID++
	m.s.data.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	m.s.lock()
	defer m.s.unlock()

	user, exists := m.s.data.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.lock()
	defer m.s.unlock()

	for _, u := range m.s.data.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// PostRepository implementation
type PostRepository struct{ s *Store }

func (m *PostRepository) withAuthor(p models.Post) *models.Post {
	p.Comments = nil
	if u, ok := m.s.data.users[p.AuthorID]; ok {
		p.Author = &u
	}
	return &p
}

func (m *PostRepository) titleTaken(title string, except uint) bool {
	for id, p := range m.s.data.posts {
		if id != except && p.Title == title {
			return true
		}
	}
	return false
}

func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.s.lock()
	defer m.s.unlock()

	if _, ok := m.s.data.users[post.AuthorID]; !ok {
		return repositories.ErrInvalidReference
	}
	if m.titleTaken(post.Title, 0) {
		return repositories.ErrDuplicate
	}
	if err := post.BeforeCreate(nil); err != nil {
		return err
	}
	post.ID = m.s.data.nextPostID
	m.s.data.nextPostID++

	stored := *post
	stored.Author, stored.Comments = nil, nil
	m.s.data.posts[post.ID] = stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	m.s.lock()
	defer m.s.unlock()

	post, exists := m.s.data.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.withAuthor(post), nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	m.s.lock()
	defer m.s.unlock()

	posts := make([]*models.Post, 0, len(m.s.data.posts))
	for _, p := range m.s.data.posts {
		posts = append(posts, m.withAuthor(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.s.lock()
	defer m.s.unlock()

	existing, exists := m.s.data.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	if _, ok := m.s.data.users[post.AuthorID]; !ok {
		return repositories.ErrInvalidReference
	}
	if m.titleTaken(post.Title, post.ID) {
		return repositories.ErrDuplicate
	}
	existing.Title = post.Title
	existing.Subtitle = post.Subtitle
	existing.ImgURL = post.ImgURL
	existing.Body = post.Body
	existing.AuthorID = post.AuthorID
	m.s.data.posts[post.ID] = existing
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id uint) error {
	m.s.lock()
	defer m.s.unlock()

	if _, exists := m.s.data.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.data.posts, id)
	for cid, c := range m.s.data.comments {
		if c.PostID == id {
			delete(m.s.data.comments, cid)
		}
	}
	return nil
}

// CommentRepository implementation
type CommentRepository struct{ s *Store }

func (m *CommentRepository) withAuthor(c models.Comment) *models.Comment {
	c.Post = nil
	if u, ok := m.s.data.users[c.AuthorID]; ok {
		c.Author = &u
	}
	return &c
}

func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.s.lock()
	defer m.s.unlock()

	if _, ok := m.s.data.users[comment.AuthorID]; !ok {
		return repositories.ErrInvalidReference
	}
	if _, ok := m.s.data.posts[comment.PostID]; !ok {
		return repositories.ErrInvalidReference
	}
	comment.ID = m.s.data.nextCommentID
	m.s.data.nextCommentID++

	stored := *comment
	stored.Author, stored.Post = nil, nil
	m.s.data.comments[comment.ID] = stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	m.s.lock()
	defer m.s.unlock()

	comment, exists := m.s.data.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.withAuthor(comment), nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	m.s.lock()
	defer m.s.unlock()

	var comments []*models.Comment
	for _, c := range m.s.data.comments {
		if c.PostID == postID {
			comments = append(comments, m.withAuthor(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *CommentRepository) Delete(ctx context.Context, id uint) error {
	m.s.lock()
	defer m.s.unlock()

	if _, exists := m.s.data.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.data.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	m.s.lock()
	defer m.s.unlock()

	var n int64
	for id, c := range m.s.data.comments {
		if c.PostID == postID {
			delete(m.s.data.comments, id)
			n++
		}
	}
	return n, nil
}

var _ repositories.Store = (*Store)(nil)
