package logging

const (
	// FieldError can be used instead of Err(err) if you have only the error message string.
	FieldError = "err"

	FieldComponent = "component"
	FieldStatus    = "status"

	FieldChainId  = "chainId"
	FieldUrl      = "url"
	FieldDuration = "duration"

	FieldContract = "contract"
	FieldWallet   = "wallet"
	FieldIndex    = "index"
	FieldVariant  = "variant"
	FieldProbe    = "probe"
	FieldPrice    = "price"
	FieldGasLimit = "gasLimit"
	FieldGasPrice = "gasPrice"
	FieldBaseFee  = "baseFee"
	FieldNonce    = "nonce"
	FieldTxHash   = "txHash"
	FieldExplorer = "explorer"

	FieldBlockNumber = "blockNumber"
)
