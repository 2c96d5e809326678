package sentiment

// defaultLexicon is the embedded valence lexicon, one "word valence" pair per
// line with valences on the usual -4..4 scale. Curated for business-review
// text; replaceable via WithLexiconSource.
const defaultLexicon = `
# positive
amazing 2.8
awesome 3.1
beautiful 2.9
best 3.2
better 1.9
bright 1.4
charming 2.4
clean 1.7
comfortable 2.1
cozy 2.2
cute 2.0
delicious 2.9
delightful 2.8
enjoy 1.9
enjoyable 2.2
enjoyed 1.9
excellent 3.1
exceptional 2.9
fabulous 2.9
fantastic 3.0
fast 1.2
favorite 2.4
fresh 1.8
friendly 2.2
fun 2.3
generous 2.3
glad 2.0
good 1.9
great 3.1
happy 2.7
heavenly 2.8
helpful 1.9
impressed 2.3
impressive 2.4
incredible 2.9
inviting 2.0
kind 1.6
love 3.2
loved 2.9
lovely 2.8
nice 1.8
outstanding 3.1
perfect 3.0
pleasant 2.0
quick 1.1
recommend 1.7
recommended 1.7
relaxing 2.1
rich 1.5
satisfying 2.2
smooth 1.6
solid 1.3
spacious 1.5
special 1.7
stellar 2.8
superb 3.0
sweet 1.9
tasty 2.4
terrific 2.9
warm 1.6
welcoming 2.2
wonderful 2.9
wow 2.6
yummy 2.5

# negative
appalling -3.0
average -0.8
awful -3.1
bad -2.5
bitter -1.6
bland -1.8
broken -1.9
burnt -1.9
cold -1.1
cramped -1.6
dirty -2.3
disappointed -2.2
disappointing -2.3
disgusting -3.2
dreadful -3.0
expensive -1.3
gross -2.6
hate -2.7
hated -2.6
horrible -3.0
loud -1.2
mediocre -1.6
mess -1.7
nasty -2.7
noisy -1.4
overpriced -1.8
poor -2.1
pricey -1.1
rude -2.5
slow -1.3
sour -1.4
stale -1.9
terrible -3.1
unfriendly -2.1
unpleasant -2.2
waste -2.0
watery -1.5
weak -1.4
worst -3.3
wrong -1.7
`
