package project

import "errors"

var (
	// ErrProjectNotFound はプロジェクトが存在しない場合に返却されます。
	ErrProjectNotFound = errors.New("project: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("project: invalid id")
	// ErrInvalidName はプロジェクト名が不正な場合に返却されます。
	ErrInvalidName = errors.New("project: invalid name")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("project: invalid status")
	// ErrInvalidRequiredSkill は必要スキルの指定が不正な場合に返却されます。
	ErrInvalidRequiredSkill = errors.New("project: invalid required skill")
	// ErrInvalidActor は操作者が指定されていない場合に返却されます。
	ErrInvalidActor = errors.New("project: actor is required")
	// ErrUnauthorized は操作者に権限がない場合に返却されます。
	ErrUnauthorized = errors.New("project: actor is not permitted")
)
