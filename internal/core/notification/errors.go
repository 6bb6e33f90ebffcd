package notification

import "errors"

var (
	// ErrInvalidUserID は宛先ユーザーが指定されていない場合に返却されます。
	ErrInvalidUserID = errors.New("notification: invalid user id")
	// ErrInvalidTitle はタイトルが空の場合に返却されます。
	ErrInvalidTitle = errors.New("notification: invalid title")
)
