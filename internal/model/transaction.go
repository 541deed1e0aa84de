package model

import "time"

// TxKind is the kind of a live-feed transaction.
type TxKind string

const (
	TxBuy   TxKind = "buy"
	TxSell  TxKind = "sell"
	TxStake TxKind = "stake"
)

// TxKinds lists feed transaction kinds in draw order.
var TxKinds = []TxKind{TxBuy, TxSell, TxStake}

// Transaction is a community activity record shown in the live feed.
type Transaction struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      TxKind    `json:"kind" yaml:"kind"`
	Amount    int       `json:"amount" yaml:"amount"`
	Actor     string    `json:"actor" yaml:"actor"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// WalletTxKind is the kind of a wallet history entry.
type WalletTxKind string

const (
	WalletBuy    WalletTxKind = "Buy"
	WalletInvest WalletTxKind = "Invest"
	WalletSell   WalletTxKind = "Sell"
)

// WalletTxStatus is the settlement state of a wallet history entry.
type WalletTxStatus string

const (
	WalletCompleted WalletTxStatus = "Completed"
	WalletPending   WalletTxStatus = "Pending"
)

// WalletTransaction is an entry of the wallet's recent transactions tab.
type WalletTransaction struct {
	ID     int            `json:"id" yaml:"id"`
	Kind   WalletTxKind   `json:"kind" yaml:"kind"`
	Amount int            `json:"amount" yaml:"amount"`
	Date   string         `json:"date" yaml:"date"`
	Status WalletTxStatus `json:"status" yaml:"status"`
}
