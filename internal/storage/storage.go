package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage はバイト列の保存・削除を抽象化するインターフェース。
// 現在はメールの file ドライバが送信内容を書き出すために使う。
type Storage interface {
	// Save は data を key に保存し、保存先の位置を返す。
	// key はストレージ内の相対パス (例: "20250101T120000Z-auto_reply-<uuid>.eml")。
	Save(ctx context.Context, key string, data io.Reader) (location string, err error)

	// Delete は key に対応するファイルを削除する。
	Delete(ctx context.Context, key string) error
}
