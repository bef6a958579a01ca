package swarm

import "fmt"

func (s *Solver) initdb() {
	if s.Db == nil {
		return
	}

	q := "CREATE TABLE IF NOT EXISTS " + TblParticles + " (particle INTEGER, iter INTEGER, val REAL, best REAL"
	q += s.xdbsql("define")
	q += ");"
	_, err := s.Db.Exec(q)
	panicif(err)

	q = "CREATE TABLE IF NOT EXISTS " + TblBest + " (iter INTEGER, val REAL"
	q += s.xdbsql("define")
	q += ");"
	_, err = s.Db.Exec(q)
	panicif(err)
}

func (s *Solver) xdbsql(op string) string {
	q := ""
	for i := range s.Cands[0].Pos {
		switch op {
		case "?":
			q += ",?"
		case "define":
			q += fmt.Sprintf(",x%v REAL", i)
		case "x":
			q += fmt.Sprintf(",x%v", i)
		default:
			panic("swarm: invalid db op " + op)
		}
	}
	return q
}

func (s *Solver) updateDb() {
	if s.Db == nil {
		return
	}

	tx, err := s.Db.Begin()
	panicif(err)
	defer tx.Commit()

	q := "INSERT INTO " + TblParticles + " (particle,iter,val,best" + s.xdbsql("x") + ") VALUES (?,?,?,?" + s.xdbsql("?") + ");"
	for _, c := range s.Cands {
		args := []interface{}{c.ID, s.Iter, c.Val, c.BestVal}
		args = append(args, pos2iface(c.Pos)...)
		_, err := tx.Exec(q, args...)
		panicif(err)
	}

	if s.BestVal < 0 {
		return
	}
	q = "INSERT INTO " + TblBest + " (iter,val" + s.xdbsql("x") + ") VALUES (?,?" + s.xdbsql("?") + ");"
	args := []interface{}{s.Iter, s.BestVal}
	args = append(args, pos2iface(s.Best.Params)...)
	_, err = tx.Exec(q, args...)
	panicif(err)
}

func pos2iface(pos []float64) []interface{} {
	iface := make([]interface{}, 0, len(pos))
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
