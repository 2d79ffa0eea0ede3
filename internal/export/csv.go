// Package export renders settlement runs for download. The CSV form carries
// a UTF-8 BOM so spreadsheet tools decode the Japanese headers correctly,
// and months render in their suffixed display form so nothing downstream
// reinterprets them as dates.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mksoul/liversettle/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Header is the fixed output column order.
var Header = []string{
	"ルームID",
	"ライバー名",
	"配信有無",
	"配信月",
	"支払月",
	"ルーム売上分配額",
	"個人ランク",
	"分配額支払見込み",
	"プレミアムライブ売上",
	"プレミアムライブ支払見込み",
	"タイムチャージ支払見込み",
}

const (
	streamedYes = "有り"
	streamedNo  = "なし"
)

func presenceLabel(streamed bool) string {
	if streamed {
		return streamedYes
	}
	return streamedNo
}

// Row renders one settlement record in the fixed column order.
func Row(rec *domain.SettlementRecord) []string {
	return []string{
		rec.RoomID,
		rec.Alias,
		presenceLabel(rec.Streamed),
		rec.DeliveryMonth.Display(),
		rec.PaymentMonth.Display(),
		rec.BaseAmount.String(),
		string(rec.IndividualRank),
		rec.BasePayout.String(),
		rec.PremiumLiveAmount.String(),
		rec.PremiumLivePayout.String(),
		rec.TimeChargePayout.String(),
	}
}

// CSV renders a run's records as a UTF-8-sig CSV file.
func CSV(recs []domain.SettlementRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := range recs {
		if err := w.Write(Row(&recs[i])); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds the download filename for a run export.
func Filename(month domain.Month, ext string) string {
	return fmt.Sprintf("liver_settlement_%s.%s", month.Key(), ext)
}
