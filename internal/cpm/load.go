package cpm

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// nodeDecl is one entry of the "nodes" object of a network document.
type nodeDecl struct {
	Duration *float64 `json:"duration" validate:"required"`
	Lag      float64  `json:"lag"`
}

// LoadNetwork reads a network document from path into n and updates it.
//
// The document looks like
//
//	{
//	  "name": "micro",
//	  "nodes": {"A": {"duration": 3}, "B": {"duration": 3, "lag": 1}},
//	  "edges": [["A", "B"]]
//	}
//
// and its name must equal n.Name.
func (n *Network) LoadNetwork(path string) error {
	if strings.TrimSpace(path) == "" {
		return invalidf("load", "cannot load from empty file path string")
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return invalidf("load", "cannot load from non existing file %s", path)
	}
	if info.Size() == 0 {
		return invalidf("load", "cannot load from empty file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return invalid("load", "", errors.Wrap(err, "read network file"))
	}
	return n.LoadNetworkJSON(data)
}

// LoadNetworkJSON loads an in-memory network document into n and updates it.
// The whole document is validated before the first activity is registered.
func (n *Network) LoadNetworkJSON(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return invalidf("load", "document is not valid JSON")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return invalidf("load", "document must be a JSON object")
	}
	if len(root.Map()) == 0 {
		return invalidf("load", "cannot load from empty network")
	}

	name := root.Get("name")
	if name.Type != gjson.String || name.String() != n.Name {
		shown := "not-existing-name-key"
		if name.Exists() {
			shown = name.Raw
			if name.Type == gjson.String {
				shown = name.String()
			}
		}
		return invalidf("load", "cannot load network with name (%s) into (%s)", shown, n.Name)
	}

	decls, err := declaredActivities(root.Get("nodes"))
	if err != nil {
		return err
	}
	links, err := declaredEdges(root.Get("edges"), decls)
	if err != nil {
		return err
	}

	for _, a := range decls {
		if _, err := n.Add(a); err != nil {
			return err
		}
	}
	for _, l := range links {
		if err := n.Link(l[0], l[1]); err != nil {
			return err
		}
	}
	return n.Update()
}

// declaredActivities decodes the nodes object in document order.
func declaredActivities(nodes gjson.Result) ([]Activity, error) {
	if !nodes.IsObject() {
		return nil, invalidf("load", "cannot load network without nodes")
	}

	var (
		decls []Activity
		err   error
	)
	nodes.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if !value.IsObject() {
			err = invalid("load", id, errors.New("node declaration must be an object"))
			return false
		}
		var d nodeDecl
		if e := json.Unmarshal([]byte(value.Raw), &d); e != nil {
			err = invalid("load", id, errors.Wrap(e, "decode node"))
			return false
		}
		if e := validate.Struct(d); e != nil {
			err = invalid("load", id, fieldProblem(e))
			return false
		}
		a := Activity{Name: id, Duration: d.Duration, Lag: d.Lag}
		if e := validate.Struct(a); e != nil {
			err = invalid("load", id, fieldProblem(e))
			return false
		}
		decls = append(decls, a)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, invalidf("load", "cannot load network without nodes")
	}
	return decls, nil
}

// declaredEdges checks every edge entry against the declared activities.
// Only the two element [from, to] notation is supported.
func declaredEdges(edges gjson.Result, decls []Activity) ([][2]string, error) {
	if !edges.Exists() {
		return nil, nil
	}
	if !edges.IsArray() {
		return nil, invalidf("load", "edges must be an array")
	}

	declared := make(map[string]bool, len(decls))
	for _, a := range decls {
		declared[a.Name] = true
	}

	var links [][2]string
	for i, edge := range edges.Array() {
		if !edge.IsArray() {
			return nil, invalidf("load", "edge %d must be an array", i)
		}
		ends := edge.Array()
		switch {
		case len(ends) == 0:
			return nil, invalidf("load", "cannot build an empty edge")
		case len(ends) == 1:
			return nil, invalidf("load", "cannot build directed edge from (%s) without a target", ends[0].String())
		case len(ends) > 2:
			return nil, errors.Wrapf(ErrNotImplemented, "load edge %d", i)
		}

		if ends[0].Type != gjson.String || ends[1].Type != gjson.String {
			return nil, invalidf("load", "edge %d must name activities as strings", i)
		}
		from, to := ends[0].String(), ends[1].String()
		for _, id := range []string{from, to} {
			if !declared[id] {
				return nil, invalid("load", id, ErrNotFound)
			}
		}
		links = append(links, [2]string{from, to})
	}
	return links, nil
}
