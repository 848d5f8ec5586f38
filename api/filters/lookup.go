package filters

// URI params for the lookup endpoint.
type LookupURIParams struct {
	Name string `uri:"name" binding:"required"`
}
