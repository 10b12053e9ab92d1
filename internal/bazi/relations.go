package bazi

// Fixed relationship tables between stems and between branches.

// stemCombinations lists the five stem combinations (天干五合) and the element
// each transforms into.
var stemCombinations = [5]struct {
	a, b Stem
	into Element
}{
	{StemJia, StemJi, Earth},
	{StemYi, StemGeng, Metal},
	{StemBing, StemXin, Water},
	{StemDing, StemRen, Wood},
	{StemWu, StemGui, Fire},
}

// StemCombination reports whether a and b combine and the element they
// transform into.
func StemCombination(a, b Stem) (Element, bool) {
	for _, c := range stemCombinations {
		if (a == c.a && b == c.b) || (a == c.b && b == c.a) {
			return c.into, true
		}
	}
	return 0, false
}

// stemClashes lists the four stem clashes (天干相冲).
var stemClashes = [4][2]Stem{
	{StemJia, StemGeng},
	{StemYi, StemXin},
	{StemBing, StemRen},
	{StemDing, StemGui},
}

// StemClash reports whether a and b clash.
func StemClash(a, b Stem) bool {
	for _, c := range stemClashes {
		if (a == c[0] && b == c[1]) || (a == c[1] && b == c[0]) {
			return true
		}
	}
	return false
}

// branchClashes maps each branch to its six-clash (六冲) partner.
var branchClashes = [12]Branch{
	BranchZi: BranchWu, BranchChou: BranchWei, BranchYin: BranchShen,
	BranchMao: BranchYou, BranchChen: BranchXu, BranchSi: BranchHai,
	BranchWu: BranchZi, BranchWei: BranchChou, BranchShen: BranchYin,
	BranchYou: BranchMao, BranchXu: BranchChen, BranchHai: BranchSi,
}

// ClashPartner returns the branch that clashes with b.
func ClashPartner(b Branch) Branch { return branchClashes[b] }

// BranchClash reports whether a and b clash.
func BranchClash(a, b Branch) bool { return branchClashes[a] == b }

// branchCombinations lists the six branch combinations (六合).
var branchCombinations = [6]struct {
	a, b Branch
	into Element
}{
	{BranchZi, BranchChou, Earth},
	{BranchYin, BranchHai, Wood},
	{BranchMao, BranchXu, Fire},
	{BranchChen, BranchYou, Metal},
	{BranchSi, BranchShen, Water},
	{BranchWu, BranchWei, Earth},
}

// BranchCombination reports whether a and b combine and the element formed.
func BranchCombination(a, b Branch) (Element, bool) {
	for _, c := range branchCombinations {
		if (a == c.a && b == c.b) || (a == c.b && b == c.a) {
			return c.into, true
		}
	}
	return 0, false
}

// branchHarms lists the six harms (六害).
var branchHarms = [6][2]Branch{
	{BranchZi, BranchWei},
	{BranchChou, BranchWu},
	{BranchYin, BranchSi},
	{BranchMao, BranchChen},
	{BranchShen, BranchHai},
	{BranchYou, BranchXu},
}

// BranchHarm reports whether a and b harm each other.
func BranchHarm(a, b Branch) bool {
	for _, h := range branchHarms {
		if (a == h[0] && b == h[1]) || (a == h[1] && b == h[0]) {
			return true
		}
	}
	return false
}

// Alliance is a three-branch frame: a triple combination (三合) around a
// cardinal branch, or a seasonal direction (三会).
type Alliance struct {
	Branches [3]Branch // the cardinal branch sits in the middle
	Element  Element
}

// Cardinal returns the alliance's central branch.
func (a Alliance) Cardinal() Branch { return a.Branches[1] }

// Contains reports whether b belongs to the alliance.
func (a Alliance) Contains(b Branch) bool {
	return a.Branches[0] == b || a.Branches[1] == b || a.Branches[2] == b
}

// TripleAlliances are the four 三合 frames.
var TripleAlliances = [4]Alliance{
	{[3]Branch{BranchShen, BranchZi, BranchChen}, Water},
	{[3]Branch{BranchHai, BranchMao, BranchWei}, Wood},
	{[3]Branch{BranchYin, BranchWu, BranchXu}, Fire},
	{[3]Branch{BranchSi, BranchYou, BranchChou}, Metal},
}

// DirectionalAlliances are the four 三会 seasonal frames.
var DirectionalAlliances = [4]Alliance{
	{[3]Branch{BranchYin, BranchMao, BranchChen}, Wood},
	{[3]Branch{BranchSi, BranchWu, BranchWei}, Fire},
	{[3]Branch{BranchShen, BranchYou, BranchXu}, Metal},
	{[3]Branch{BranchHai, BranchZi, BranchChou}, Water},
}

// Punishment groups (刑). Every pair inside a group punishes; the full group
// is the triple punishment.
var (
	PowerPunishment      = [3]Branch{BranchYin, BranchSi, BranchShen} // 恃势之刑
	UngratefulPunishment = [3]Branch{BranchChou, BranchXu, BranchWei} // 无恩之刑
)

var selfPunishing = [12]bool{BranchChen: true, BranchWu: true, BranchYou: true, BranchHai: true}

// BranchPunishment reports whether a and b punish each other: within a
// three-branch group, 子卯 rudeness, or a self-punishing branch meeting itself.
func BranchPunishment(a, b Branch) bool {
	if a == b {
		return selfPunishing[a]
	}
	if (a == BranchZi && b == BranchMao) || (a == BranchMao && b == BranchZi) {
		return true
	}
	for _, g := range [2][3]Branch{PowerPunishment, UngratefulPunishment} {
		if in3(g, a) && in3(g, b) {
			return true
		}
	}
	return false
}

func in3(g [3]Branch, b Branch) bool { return g[0] == b || g[1] == b || g[2] == b }

// nobles maps each day stem to its noble-person (天乙贵人) branches.
var nobles = [10][2]Branch{
	StemJia:  {BranchChou, BranchWei},
	StemYi:   {BranchZi, BranchShen},
	StemBing: {BranchHai, BranchYou},
	StemDing: {BranchHai, BranchYou},
	StemWu:   {BranchChou, BranchWei},
	StemJi:   {BranchZi, BranchShen},
	StemGeng: {BranchChou, BranchWei},
	StemXin:  {BranchYin, BranchWu},
	StemRen:  {BranchMao, BranchSi},
	StemGui:  {BranchMao, BranchSi},
}

// NobleBranches returns the noble-person branches for a day stem.
func NobleBranches(day Stem) [2]Branch { return nobles[day] }

// IsNoble reports whether b is a noble-person branch for the day stem.
func IsNoble(day Stem, b Branch) bool { return nobles[day][0] == b || nobles[day][1] == b }
