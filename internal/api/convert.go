package api

import (
	"github.com/universus/universus/internal/model"
)

// ToSnapshot converts current market data into a daily snapshot row for the
// given calendar day.
func (d *CurrentData) ToSnapshot(world string, date string) model.Snapshot {
	return model.Snapshot{
		ItemID:         d.ItemID,
		World:          world,
		Date:           date,
		AveragePrice:   d.AveragePrice,
		MinPrice:       d.MinPrice,
		MaxPrice:       d.MaxPrice,
		SaleVelocity:   d.RegularSaleVelocity,
		NQSaleVelocity: d.NQSaleVelocity,
		HQSaleVelocity: d.HQSaleVelocity,
		TotalListings:  len(d.Listings),
		LastUploadTime: d.LastUploadTime,
	}
}

// ToSales converts a history response into sale rows.
func (h *HistoryResponse) ToSales(itemID int, world string) []model.Sale {
	sales := make([]model.Sale, 0, len(h.Entries))
	for _, e := range h.Entries {
		sales = append(sales, model.Sale{
			ItemID:       itemID,
			World:        world,
			SaleTime:     e.Timestamp,
			PricePerUnit: e.PricePerUnit,
			Quantity:     e.Quantity,
			HQ:           e.HQ,
			BuyerName:    e.BuyerName,
		})
	}
	return sales
}

// ToModel converts a datacenter wire entry to the domain type.
func (dc *DataCenter) ToModel() model.DataCenter {
	return model.DataCenter{
		Name:   dc.Name,
		Region: dc.Region,
		Worlds: dc.Worlds,
	}
}
