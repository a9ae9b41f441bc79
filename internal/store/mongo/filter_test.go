package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tablechat/tablechat/internal/store"
)

func TestBuildFilterSinglePredicate(t *testing.T) {
	filter := buildFilter([]store.Predicate{
		{Column: "category", Op: store.OpEq, Value: "Books"},
	})
	want := bson.M{"category": bson.M{"$eq": "Books"}}
	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("filter = %v, want %v", filter, want)
	}
}

func TestBuildFilterRepeatedColumn(t *testing.T) {
	filter := buildFilter([]store.Predicate{
		{Column: "price", Op: store.OpGt, Number: 10},
		{Column: "price", Op: store.OpLt, Number: 50},
	})
	want := bson.M{"$and": []bson.M{
		{"price": bson.M{"$gt": float64(10)}},
		{"price": bson.M{"$lt": float64(50)}},
	}}
	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("filter = %v, want both bounds kept", filter)
	}
}

func TestBuildFilterBetween(t *testing.T) {
	filter := buildFilter([]store.Predicate{
		{Column: "price", Op: store.OpBetween, Low: 10, High: 50},
	})
	want := bson.M{"price": bson.M{"$gte": float64(10), "$lte": float64(50)}}
	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("filter = %v, want %v", filter, want)
	}
}

func TestBuildFilterEmpty(t *testing.T) {
	if filter := buildFilter(nil); len(filter) != 0 {
		t.Fatalf("filter = %v, want empty", filter)
	}
}

func TestLikeToRegex(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"%laptop%", "^.*laptop.*$"},
		{"Item_0%", "^Item.0.*$"},
		{"100% cotton", "^100.* cotton$"},
		{"a.b", `^a\.b$`},
		{"(x)", `^\(x\)$`},
	}
	for _, tc := range cases {
		if got := likeToRegex(tc.pattern); got != tc.want {
			t.Fatalf("likeToRegex(%q) = %q, want %q", tc.pattern, got, tc.want)
		}
	}
}

func TestBuildProjection(t *testing.T) {
	projection := buildProjection([]string{"name", "price"})
	want := bson.M{"_id": 0, "name": 1, "price": 1}
	if !reflect.DeepEqual(projection, want) {
		t.Fatalf("projection = %v, want %v", projection, want)
	}

	all := buildProjection([]string{"*"})
	if !reflect.DeepEqual(all, bson.M{"_id": 0}) {
		t.Fatalf("projection for * = %v, want _id suppression only", all)
	}
}
