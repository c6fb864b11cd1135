package chat

import "errors"

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrGroupExists    = errors.New("group already exists")
	ErrNotGroupMember = errors.New("not a member of this group")
	ErrNotGroupAdmin  = errors.New("only the group admin can do this")
	ErrAlreadyMember  = errors.New("user is already a member of the group")
	ErrEmptyMessage   = errors.New("message needs content or a file")
)
