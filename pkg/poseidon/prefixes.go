package poseidon

// Domain prefixes absorbed ahead of the input. Every prefix is padded with
// '*' to 20 bytes, except the empty-list tags which are used verbatim.
const (
	PrefixSignatureTestnet = "CodaSignature*******"
	PrefixSignatureMainnet = "MinaSignatureMainnet"

	PrefixAccountUpdateNode = "MinaAcctUpdateNode**"
	PrefixAccountUpdateCons = "MinaAcctUpdateCons**"
	PrefixZkappBodyMainnet  = "MainnetZkappBody****"
	PrefixZkappBodyTestnet  = "TestnetZkappBody****"
	PrefixZkappMemo         = "MinaZkappMemo*******"
	PrefixZkappURI          = "MinaZkappUri********"
	PrefixZkappEvent        = "MinaZkappEvent******"
	PrefixZkappEvents       = "MinaZkappEvents*****"
	PrefixZkappActions      = "MinaZkappSeqEvents**"

	PrefixZkappEventsEmpty         = "MinaZkappEventsEmpty"
	PrefixZkappActionsEmpty        = "MinaZkappActionsEmpty"
	PrefixZkappActionStateEmptyElt = "MinaZkappActionStateEmptyElt"
	PrefixReceiptChainEmpty        = "CodaReceiptEmpty"

	PrefixNullifier   = "MinaNullifier*******"
	PrefixHashToGroup = "MinaHashToGroup*****"
)
