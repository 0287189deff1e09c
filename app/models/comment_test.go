package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{Text: "<p>Nice post</p>", AuthorID: 2, PostID: 1},
		},
		{
			name:    "empty text",
			comment: &Comment{Text: "", AuthorID: 2, PostID: 1},
			wantErr: true,
		},
		{
			name:    "missing author",
			comment: &Comment{Text: "hi", PostID: 1},
			wantErr: true,
		},
		{
			name:    "missing post",
			comment: &Comment{Text: "hi", AuthorID: 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{Text: "hi"}

	assert.Error(t, comment.SetPost(nil))

	post := &Post{ID: 9}
	assert.NoError(t, comment.SetPost(post))
	assert.Equal(t, uint(9), comment.PostID)
	assert.Equal(t, post, comment.Post)
}

func TestCommentSetAuthor(t *testing.T) {
	comment := &Comment{Text: "hi"}

	assert.Error(t, comment.SetAuthor(nil))

	assert.NoError(t, comment.SetAuthor(&User{ID: 4}))
	assert.Equal(t, uint(4), comment.AuthorID)
}
