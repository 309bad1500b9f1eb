package domain

import "time"

// LogMeta carries the on chain coordinates of an event log.
type LogMeta struct {
	BlockNumber     BlockNumber
	BlockTime       time.Time
	TxHash          TxHash
	TxIndex         uint
	LogIndex        uint
	ContractAddress Address
	MsgSender       Address
}
