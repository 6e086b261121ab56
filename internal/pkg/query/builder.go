package query

import (
	"strings"
)

//SRID is the spatial reference used for every stored and queried coordinate
const SRID = 4326

const pointQueryBase = "SELECT id, owner, ST_X(coordinates::geometry) AS longitude, " +
	"ST_Y(coordinates::geometry) AS latitude, elevation, time, device FROM points"

//Query is a parameterized SQL statement using ? placeholders
type Query struct {
	SQL  string
	Args []interface{}
}

type builder struct {
	sql  strings.Builder
	args []interface{}
}

func (b *builder) push(fragment string) {
	b.sql.WriteString(fragment)
}

func (b *builder) bind(value interface{}) {
	b.sql.WriteString("?")
	b.args = append(b.args, value)
}

//separated binds values as a comma separated list
func (b *builder) separated(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			b.push(", ")
		}
		b.bind(v)
	}
}

//BuildPointQuery turns a filter into a select over the points table. Clauses
//are appended in a fixed order and the limit, if any, always comes last.
func BuildPointQuery(f Filter) Query {
	b := &builder{}

	b.push(pointQueryBase)
	b.push(" WHERE owner = ")
	b.bind(f.Owner)

	if f.Device != nil {
		b.push(" AND device = ")
		b.bind(*f.Device)
	}

	if f.Time != nil {
		b.push(" AND time BETWEEN ")
		b.bind(f.Time.MinDate)
		b.push(" AND ")
		b.bind(f.Time.MaxDate)
	}

	if f.BBox != nil {
		b.push(" AND ST_Intersects(coordinates, ST_MakeEnvelope(")
		b.separated(f.BBox.MinLon, f.BBox.MinLat, f.BBox.MaxLon, f.BBox.MaxLat, SRID)
		b.push(")::geography)")
	}

	if f.Limit != nil {
		b.push(" LIMIT ")
		b.bind(*f.Limit)
	}

	return Query{SQL: b.sql.String(), Args: b.args}
}
