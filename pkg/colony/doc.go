// Package colony implements the ant agent of the clustering heuristic.
//
// An Ant wanders the virtual plane and is either empty or holding exactly
// one node. Pickup succeeds more often in sparse neighborhoods and always
// takes the most dissimilar node; Drop succeeds more often in dense ones and
// is accepted when it lowers the node's placement error, or occasionally
// when it does not, so the colony can leave local optima.
//
// Every ant owns its random source. With the default seed an ant's draw
// sequence is bit-identical to java.util.Random(11235), so identical inputs
// always replay identical decisions.
package colony
