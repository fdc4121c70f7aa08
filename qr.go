// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QrEncoder turns text into a QR module matrix, row 0 at the top.
type QrEncoder interface {
	Matrix(data string) ([][]bool, error)
}

// QrCodeEncoder encodes with medium error correction and a quiet zone of
// Border modules.
type QrCodeEncoder struct {
	Level  qrcode.RecoveryLevel
	Border int
}

var DefaultQrEncoder QrEncoder = QrCodeEncoder{Level: qrcode.Medium, Border: 1}

func (e QrCodeEncoder) Matrix(data string) ([][]bool, error) {
	code, err := qrcode.New(data, e.Level)
	if err != nil {
		return nil, fmt.Errorf("unable to encode QR data: %w", err)
	}
	code.DisableBorder = true

	bitmap := code.Bitmap()
	if e.Border <= 0 {
		return bitmap, nil
	}

	side := len(bitmap) + 2*e.Border
	matrix := make([][]bool, side)
	for r := range matrix {
		matrix[r] = make([]bool, side)
		if src := r - e.Border; src >= 0 && src < len(bitmap) {
			copy(matrix[r][e.Border:], bitmap[src])
		}
	}

	return matrix, nil
}
