package qrcode

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// GeneratePaymentQR 生成付款二维码 PNG，编码 地址+金额+单号
func GeneratePaymentQR(address string, amount float64, paymentID string) ([]byte, error) {
	uri := fmt.Sprintf("tron:%s?amount=%.2f&order=%s", address, amount, paymentID)
	return qrcode.Encode(uri, qrcode.Medium, 256)
}
