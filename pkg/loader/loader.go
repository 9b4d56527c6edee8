// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package loader builds a [network.Graph] from configured network data files.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/config"
	"github.com/netrace/netrace/pkg/network"
	"golang.org/x/sync/errgroup"
)

var log = logging.Log()

// connectionSpace is the name space for generated connection IDs.
var connectionSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/netrace/netrace/connection"))

// ConnectionID returns the stable local ID of a connection edge between two entities.
func ConnectionID(from, to network.ID) string {
	return uuid.NewSHA1(connectionSpace, []byte(from.String()+">"+to.String())).String()
}

// Concurrency limits the number of data files read at once.
var Concurrency = 4

// Load reads the data of every configured network concurrently, then builds the graph
// in configuration order and adds the connections between networks.
func Load(ctx context.Context, c *config.Config) (*network.Graph, error) {
	data := make([]*Data, len(c.Networks))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(Concurrency)
	for i, n := range c.Networks {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := ReadData(n.Data)
			if err != nil {
				return fmt.Errorf("network %v: %w", n.Name, err)
			}
			data[i] = d
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	g := network.New()
	for i := range c.Networks {
		if err := addNetwork(g, &c.Networks[i], data[i]); err != nil {
			return nil, err
		}
	}
	for _, conn := range c.Connections {
		if err := addConnection(g, conn); err != nil {
			return nil, err
		}
	}
	log.V(1).Info("Graph loaded", "networks", len(c.Networks), "vertices", g.Order(), "edges", g.Size())
	return g, nil
}

func addNetwork(g *network.Graph, n *config.Network, d *Data) error {
	var errs []error
	for _, v := range d.Vertices {
		if _, err := g.AddVertex(network.NewID(n.Name, v.ID), network.NewFeature(n.VertexType(), v.Attributes)); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range d.Edges {
		id := network.NewID(n.Name, e.ID)
		if _, err := g.AddEdge(network.NewID(n.Name, e.Source), network.NewID(n.Name, e.Target), id, network.NewFeature(n.EdgeType(), e.Attributes)); err != nil {
			errs = append(errs, err)
			continue
		}
		if e.Weight != nil {
			if err := g.SetWeight(id, *e.Weight); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("network %v: %w", n.Name, err)
	}
	log.V(2).Info("Network loaded", "network", n.Name, "vertices", len(d.Vertices), "edges", len(d.Edges))
	return nil
}

// addConnection links each vertex of the source network that has a reference attribute.
//
// Without a type the reference names a vertex of the target network.
// With START or END it names an edge, and the link goes to that edge's source or target vertex.
// Missing references are logged and skipped.
func addConnection(g *network.Graph, conn config.Connection) error {
	for _, v := range g.Vertices() {
		if v.ID.Network != conn.SourceNetwork || v.ID.Kind != network.Data {
			continue
		}
		value, ok := v.Payload.Attribute(conn.ReferenceAttribute)
		if !ok || value == nil {
			continue
		}
		ref := network.NewID(conn.TargetNetwork, fmt.Sprint(value))
		var other *network.Vertex
		switch conn.Type {
		case config.ConnectStart, config.ConnectEnd:
			e := g.Edge(ref)
			if e == nil {
				log.Info("Warning: connection reference not found", "vertex", v.ID, "edge", ref)
				continue
			}
			if conn.Type == config.ConnectStart {
				other = g.Source(e)
			} else {
				other = g.Target(e)
			}
		default:
			if other = g.Vertex(ref); other == nil {
				log.Info("Warning: connection reference not found", "vertex", v.ID, "target", ref)
				continue
			}
		}
		id := network.GeneratedID(conn.TargetNetwork, ConnectionID(v.ID, ref))
		payload := network.NewFeature(network.ConnectionEdgeType, map[string]any{
			"source":    v.ID.String(),
			"reference": ref.String(),
		})
		if _, err := g.AddEdge(v.ID, other.ID, id, payload); err != nil {
			return fmt.Errorf("connection %v->%v: %w", conn.SourceNetwork, conn.TargetNetwork, err)
		}
		// Connections have no length of their own.
		if err := g.SetWeight(id, 0); err != nil {
			return err
		}
	}
	return nil
}
