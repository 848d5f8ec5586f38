package species

// Species query, case insensitive partial match limited to a single result.
const getPokemonByName = `
query GetPokemon($name: String!) {
  pokemonspecies(where: { name: { _ilike: $name } }, limit: 1) {
    id
    name
  }
}`

// Shape of the data field of the query response.
type getPokemonResult struct {
	PokemonSpecies *[]speciesNode `json:"pokemonspecies"`
}

type speciesNode struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}
